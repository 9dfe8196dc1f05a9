// Package templates reads game templates and questions from the authoring
// database. The live engine never writes here.
package templates

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/quizlive/quiz-services/internal/gamesvc/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	games     *mongo.Collection
	questions *mongo.Collection
}

// Connect opens the authoring database named in MONGODB_URI and returns a
// read-only template store over its games and questions collections.
func Connect() (*Store, context.CancelFunc, error) {
	mongoURI := os.Getenv("MONGODB_URI")

	uri, err := url.Parse(mongoURI)
	if err != nil {
		return nil, nil, fmt.Errorf("error parsing MongoDB URI: %w", err)
	}

	dbName := strings.TrimPrefix(uri.Path, "/")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("error connecting to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		cancel()
		return nil, nil, fmt.Errorf("error pinging MongoDB: %w", err)
	}

	db := client.Database(dbName)

	s := &Store{
		games:     db.Collection("games"),
		questions: db.Collection("questions"),
	}

	return s, cancel, nil
}

// GetGame returns the template, or nil when it does not exist.
func (s *Store) GetGame(ctx context.Context, gameID int64) (*models.Game, error) {
	game := &models.Game{}
	err := s.games.FindOne(ctx, bson.M{"_id": gameID}).Decode(game)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get game template: %w", err)
	}
	return game, nil
}

// GetQuestion returns one question with its answer key, or nil when missing.
func (s *Store) GetQuestion(ctx context.Context, questionID int64) (*models.Question, error) {
	q := &models.Question{}
	err := s.questions.FindOne(ctx, bson.M{"_id": questionID}).Decode(q)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get question: %w", err)
	}
	return q, nil
}

// ListQuestionsByGame returns the game's questions in authored order.
func (s *Store) ListQuestionsByGame(ctx context.Context, gameID int64) ([]*models.Question, error) {
	cursor, err := s.questions.Find(ctx, bson.M{"game_id": gameID},
		options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", err)
	}
	defer cursor.Close(ctx)

	var questions []*models.Question
	if err := cursor.All(ctx, &questions); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}

	return questions, nil
}
