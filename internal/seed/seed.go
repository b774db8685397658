// Package seed provides helpers to create development and demo data for the
// application database. These helpers are intended for development and
// testing only.
package seed

import (
	"crypto/md5"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"ripple/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedPassword is the login password shared by all generated accounts.
const SeedPassword = "password123"

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by the seeder command and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	// #nosec G404: acceptable for seeding
	return &Factory{db: db, rand: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// CreateUser constructs and persists a sample `models.User` with a profile.
// Optional override functions may modify the generated user before saving.
func (f *Factory) CreateUser(overrides ...func(*models.User)) (*models.User, error) {
	email := gofakeit.Email()
	digest, _ := bcrypt.GenerateFromPassword([]byte(SeedPassword), bcrypt.DefaultCost)
	user := &models.User{
		Username: fmt.Sprintf("%s%d", gofakeit.Username(), gofakeit.Number(100, 999)),
		Email:    email,
		Password: string(digest),
		Profile: &models.Profile{
			Bio:       gofakeit.Sentence(10),
			Location:  fmt.Sprintf("%s, %s", gofakeit.City(), gofakeit.Country()),
			AvatarURL: avatarFor(email),
		},
	}

	for _, override := range overrides {
		override(user)
	}

	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreatePost constructs and persists a sample `models.Post` for the given
// user, with a realistic created_at spread over the last 90 days.
func (f *Factory) CreatePost(user *models.User, overrides ...func(*models.Post)) (*models.Post, error) {
	post := &models.Post{
		Title:   gofakeit.Sentence(5),
		Content: gofakeit.Paragraph(1, 3, 5, "\n"),
		UserID:  user.ID,
	}

	daysBack := f.rand.Intn(90)
	hoursBack := f.rand.Intn(24)
	post.CreatedAt = time.Now().Add(-time.Duration(daysBack)*24*time.Hour - time.Duration(hoursBack)*time.Hour)

	for _, override := range overrides {
		override(post)
	}

	if err := f.db.Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

// CreateComment constructs and persists a sample `models.Comment` on the
// provided post authored by the provided user.
func (f *Factory) CreateComment(user *models.User, post *models.Post, overrides ...func(*models.Comment)) (*models.Comment, error) {
	comment := &models.Comment{
		Content: gofakeit.Sentence(8),
		UserID:  user.ID,
		PostID:  post.ID,
	}

	for _, override := range overrides {
		override(comment)
	}

	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}

// CreateLike persists a like from `user` on `post`.
func (f *Factory) CreateLike(user *models.User, post *models.Post) error {
	like := &models.Like{
		UserID: user.ID,
		PostID: post.ID,
	}
	return f.db.Create(like).Error
}

// CreateFollow persists a directed follow edge with the given status.
func (f *Factory) CreateFollow(follower, followed *models.User, status models.FollowStatus) error {
	follow := &models.Follow{
		FollowerID: follower.ID,
		FollowedID: followed.ID,
		Status:     status,
	}
	return f.db.Create(follow).Error
}

// Seeder orchestrates bulk data generation using a Factory.
type Seeder struct {
	db      *gorm.DB
	factory *Factory
}

// NewSeeder creates a Seeder bound to the provided Gorm DB.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db, factory: NewFactory(db)}
}

// ClearAll wipes every seeded table. Deletion order respects foreign keys.
func (s *Seeder) ClearAll() error {
	log.Println("Clearing existing data...")
	tables := []string{"likes", "comments", "posts", "follows", "profiles", "users"}
	for _, table := range tables {
		if err := s.db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}
	return nil
}

// SeedUsers creates n users with profiles and returns them.
func (s *Seeder) SeedUsers(n int) ([]*models.User, error) {
	log.Printf("Creating %d users...", n)
	users := make([]*models.User, 0, n)
	for i := 0; i < n; i++ {
		user, err := s.factory.CreateUser()
		if err != nil {
			return nil, fmt.Errorf("creating user %d: %w", i, err)
		}
		users = append(users, user)
	}
	return users, nil
}

// SeedFollowGraph wires a follow graph over the given users. Roughly 70%
// of generated edges are accepted, the rest stay pending.
func (s *Seeder) SeedFollowGraph(users []*models.User) error {
	if len(users) < 2 {
		return nil
	}
	log.Println("Creating follow graph...")
	created := 0
	for _, follower := range users {
		targets := s.factory.rand.Intn(len(users)/2 + 1)
		for i := 0; i < targets; i++ {
			followed := users[s.factory.rand.Intn(len(users))]
			if followed.ID == follower.ID {
				continue
			}
			status := models.FollowStatusAccepted
			if s.factory.rand.Intn(10) >= 7 {
				status = models.FollowStatusPending
			}
			// the unique pair index rejects re-picked targets; skip those
			if err := s.factory.CreateFollow(follower, followed, status); err != nil {
				continue
			}
			created++
		}
	}
	log.Printf("Created %d follow edges", created)
	return nil
}

// SeedEngagement creates posts spread across users, then comments and
// likes on them. Returns the created posts.
func (s *Seeder) SeedEngagement(users []*models.User, numPosts int) ([]*models.Post, error) {
	if len(users) == 0 {
		return nil, nil
	}
	log.Printf("Creating %d posts with comments and likes...", numPosts)
	posts := make([]*models.Post, 0, numPosts)
	for i := 0; i < numPosts; i++ {
		author := users[s.factory.rand.Intn(len(users))]
		post, err := s.factory.CreatePost(author)
		if err != nil {
			return nil, fmt.Errorf("creating post %d: %w", i, err)
		}
		posts = append(posts, post)

		numComments := s.factory.rand.Intn(5)
		for j := 0; j < numComments; j++ {
			commenter := users[s.factory.rand.Intn(len(users))]
			if _, err := s.factory.CreateComment(commenter, post); err != nil {
				return nil, fmt.Errorf("creating comment on post %d: %w", post.ID, err)
			}
		}

		numLikes := s.factory.rand.Intn(len(users))
		liked := make(map[uint]bool, numLikes)
		for j := 0; j < numLikes; j++ {
			liker := users[s.factory.rand.Intn(len(users))]
			if liked[liker.ID] {
				continue
			}
			liked[liker.ID] = true
			if err := s.factory.CreateLike(liker, post); err != nil {
				return nil, fmt.Errorf("creating like on post %d: %w", post.ID, err)
			}
		}
	}
	return posts, nil
}

func avatarFor(email string) string {
	hash := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%x?d=identicon", hash)
}
