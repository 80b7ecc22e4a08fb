package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"quizhub/internal/config"
	"quizhub/internal/database"
	"quizhub/internal/domain"
	"quizhub/internal/logger"
	"quizhub/internal/repository"
	"quizhub/internal/util"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// seedQuiz mirrors the structure of the seed file, one entry per quiz.
type seedQuiz struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Questions   []struct {
		QuestionText string `json:"question_text"`
		Answers      []struct {
			AnswerText string `json:"answer_text"`
			IsCorrect  bool   `json:"is_correct"`
		} `json:"answers"`
	} `json:"questions"`
}

func main() {
	seedFilePath := flag.String("file", "configs/seed_data/quizzes.json", "path to the quiz seed file")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Get()

	log.Info("Starting seeding process...")
	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		log.Fatal("Failed to connect to Oracle database", zap.Error(err))
	}
	defer db.Close()

	userRepo := repository.NewSQLXUserRepository(db)
	quizRepo := repository.NewSQLXQuizRepository(db)
	txManager := repository.NewTransactionManagerAdapter(db)

	if err := seedAdminUser(ctx, userRepo, log); err != nil {
		log.Fatal("Failed to seed admin user", zap.Error(err))
	}

	byteValue, err := os.ReadFile(*seedFilePath)
	if err != nil {
		log.Fatal("Failed to read seed file", zap.String("path", *seedFilePath), zap.Error(err))
	}
	var seedQuizzes []seedQuiz
	if err := json.Unmarshal(byteValue, &seedQuizzes); err != nil {
		log.Fatal("Failed to unmarshal seed data", zap.Error(err))
	}
	log.Info("Loaded seed data", zap.Int("quizzes", len(seedQuizzes)))

	for _, sq := range seedQuizzes {
		if err := seedOneQuiz(ctx, txManager, quizRepo, sq); err != nil {
			log.Error("Error seeding quiz, transaction rolled back", zap.String("title", sq.Title), zap.Error(err))
			continue
		}
		log.Info("Seeded quiz", zap.String("title", sq.Title))
	}
	log.Info("Seeding process completed.")
}

// seedAdminUser creates the admin account when it does not exist. The
// password comes from ADMIN_PASSWORD; without it no account is created.
func seedAdminUser(ctx context.Context, userRepo repository.UserRepository, log *zap.Logger) error {
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		log.Warn("ADMIN_PASSWORD not set, skipping admin account seeding")
		return nil
	}
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@quizhub.local"
	}

	existing, err := userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to check admin user: %w", err)
	}
	if existing != nil {
		log.Info("Admin user already exists", zap.String("username", username))
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}
	admin := &domain.User{
		ID:           util.NewULID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         domain.RoleAdmin,
		IsActive:     true,
	}
	if err := userRepo.CreateUser(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}
	log.Info("Admin user created", zap.String("username", username))
	return nil
}

// seedOneQuiz inserts one quiz with its questions and answers inside a
// single transaction. Quizzes with an already-seeded title are skipped.
func seedOneQuiz(ctx context.Context, txManager domain.TransactionManager, quizRepo repository.QuizRepository, sq seedQuiz) error {
	existing, err := quizRepo.ListQuizzes(ctx, sq.Title, sq.Category)
	if err != nil {
		return fmt.Errorf("failed to check existing quizzes: %w", err)
	}
	for _, q := range existing {
		if q.Title == sq.Title {
			return nil
		}
	}

	quiz := &domain.Quiz{
		ID:          util.NewULID(),
		Title:       sq.Title,
		Description: sq.Description,
		Category:    sq.Category,
	}
	questions := make([]domain.Question, 0, len(sq.Questions))
	for i, sqq := range sq.Questions {
		question := domain.Question{
			ID:           util.NewULID(),
			QuizID:       quiz.ID,
			QuestionText: sqq.QuestionText,
			Position:     i + 1,
		}
		for _, sqa := range sqq.Answers {
			question.Answers = append(question.Answers, domain.Answer{
				ID:         util.NewULID(),
				QuestionID: question.ID,
				AnswerText: sqa.AnswerText,
				IsCorrect:  sqa.IsCorrect,
			})
		}
		questions = append(questions, question)
	}

	return txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return quizRepo.CreateQuiz(txCtx, quiz, questions)
	})
}
