// Package seed populates a fresh database with demo accounts and a small
// catalog so the API is usable out of the box.
package seed

import (
	"errors"
	"fmt"
	"log"

	"github.com/smartlibrary/server/internal/auth"
	"github.com/smartlibrary/server/internal/config"
	"github.com/smartlibrary/server/internal/database"
	"github.com/smartlibrary/server/internal/database/authors"
	"github.com/smartlibrary/server/internal/database/catalog"
	"github.com/smartlibrary/server/internal/database/clubs"
	"github.com/smartlibrary/server/internal/database/members"
	"github.com/smartlibrary/server/internal/entities"
)

type demoUser struct {
	username string
	password string
	role     entities.UserRole
	member   string
	phone    string
}

var demoUsers = []demoUser{
	{"admin", "admin12345", entities.RoleAdmin, "", ""},
	{"librarian", "librarian123", entities.RoleLibrarian, "", ""},
	{"alice", "alice1234", entities.RoleMember, "Alice Carter", "555-0101"},
	{"bob", "bob123456", entities.RoleMember, "Bob Novak", "555-0102"},
}

type demoBook struct {
	title  string
	author string
	isbn   string
	year   int
	copies int
}

var demoBooks = []demoBook{
	{"The Left Hand of Darkness", "Ursula K. Le Guin", "9780441478125", 1969, 3},
	{"A Wizard of Earthsea", "Ursula K. Le Guin", "9780547722023", 1968, 2},
	{"Kindred", "Octavia E. Butler", "9780807083697", 1979, 2},
	{"Parable of the Sower", "Octavia E. Butler", "9781538732182", 1993, 1},
	{"The Master and Margarita", "Mikhail Bulgakov", "9780141180144", 1967, 4},
	{"Solaris", "Stanislaw Lem", "9780156027601", 1961, 2},
}

// Run seeds demo users, members, authors, books and clubs. It refuses to
// run against a database that already has user accounts.
func Run(cfg *config.Config) error {
	db, err := database.NewDatabase(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	authService := auth.NewService(db.DB, cfg.Auth)
	hasUsers, err := authService.HasUsers()
	if err != nil {
		return err
	}
	if hasUsers {
		return errors.New("database already has user accounts, refusing to seed")
	}

	memberRepo := members.NewRepository(db.DB)
	for _, du := range demoUsers {
		user, err := authService.CreateUser(du.username, du.password, du.role)
		if err != nil {
			return fmt.Errorf("failed to create user %s: %w", du.username, err)
		}
		log.Printf("Created %s user %q", du.role, du.username)

		if du.member == "" {
			continue
		}
		member := &entities.Member{
			UserID:   &user.ID,
			FullName: du.member,
			Phone:    du.phone,
			Status:   entities.MemberActive,
		}
		if err := memberRepo.CreateMember(member); err != nil {
			return fmt.Errorf("failed to create member for %s: %w", du.username, err)
		}
	}

	authorRepo := authors.NewRepository(db.DB)
	catalogRepo := catalog.NewRepository(db.DB)
	authorIDs := make(map[string]uint)
	for _, b := range demoBooks {
		authorID, ok := authorIDs[b.author]
		if !ok {
			first, last := splitName(b.author)
			author := &entities.Author{FirstName: first, LastName: last}
			if err := authorRepo.CreateAuthor(author); err != nil {
				return fmt.Errorf("failed to create author %s: %w", b.author, err)
			}
			authorID = author.ID
			authorIDs[b.author] = authorID
		}

		book := &entities.Book{
			Title:         b.title,
			AuthorID:      authorID,
			ISBN:          b.isbn,
			YearPublished: b.year,
			TotalCopies:   b.copies,
		}
		if err := catalogRepo.CreateBook(book); err != nil {
			return fmt.Errorf("failed to create book %s: %w", b.title, err)
		}
	}
	log.Printf("Created %d books by %d authors", len(demoBooks), len(authorIDs))

	clubRepo := clubs.NewRepository(db.DB)
	demoClubs := []entities.BookClub{
		{Name: "Science Fiction Circle", Description: "Monthly meetings on classic and modern SF"},
		{Name: "Slavic Literature Club", Description: "Reading through the Slavic canon"},
	}
	for i := range demoClubs {
		if err := clubRepo.CreateClub(&demoClubs[i]); err != nil {
			return fmt.Errorf("failed to create club %s: %w", demoClubs[i].Name, err)
		}
	}
	log.Printf("Created %d book clubs", len(demoClubs))

	return nil
}

// splitName splits "First Middle Last" into first+middle and last parts.
func splitName(full string) (string, string) {
	last := ""
	first := full
	for i := len(full) - 1; i >= 0; i-- {
		if full[i] == ' ' {
			first = full[:i]
			last = full[i+1:]
			break
		}
	}
	return first, last
}
