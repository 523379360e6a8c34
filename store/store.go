package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/isdmx/tutorbox/config"
)

// DefaultProficiency is the level assigned to a learner with no profile yet
const DefaultProficiency = "fundamental"

// Profile is the learner's current state
type Profile struct {
	Proficiency   string   `json:"proficiency"`
	TopicsCovered []string `json:"topics_covered"`
}

// Interaction is one logged interaction event
type Interaction struct {
	ID        string         `json:"id"`
	Event     string         `json:"event"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}

// profileRow is the persisted learner profile. A single row (id 1) holds
// the current state; topics are stored as a JSON-encoded list since the
// storage schema itself is not a concern of this system.
type profileRow struct {
	ID          uint `gorm:"primaryKey"`
	Proficiency string
	Topics      string
	UpdatedAt   time.Time
}

func (profileRow) TableName() string { return "learner_profiles" }

type interactionRow struct {
	ID        string `gorm:"primaryKey"`
	Event     string
	Details   string
	CreatedAt time.Time
}

func (interactionRow) TableName() string { return "interactions" }

// Store persists learner profiles and the interaction log in SQLite via
// the pure-Go glebarez driver, so no CGO is needed.
type Store struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Open creates or opens the store at path and migrates its tables
func Open(path string, logger *zap.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.New(zapWriter{logger: logger}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open store: %w", err)
	}

	if err := db.AutoMigrate(&profileRow{}, &interactionRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate store: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

// OpenFromConfig opens the store from the application configuration
func OpenFromConfig(cfg *config.Config, logger *zap.Logger) (*Store, error) {
	return Open(cfg.Store.Path, logger)
}

// Profile returns the learner's current profile, or the default profile if
// none has been stored yet.
func (s *Store) Profile(ctx context.Context) (Profile, error) {
	var row profileRow
	err := s.db.WithContext(ctx).First(&row, 1).Error
	if err == gorm.ErrRecordNotFound {
		return Profile{Proficiency: DefaultProficiency, TopicsCovered: []string{}}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return rowToProfile(row)
}

// UpdateProfile records a newly covered topic and the learner's proficiency
// level, returning the updated profile. Topics are deduplicated.
func (s *Store) UpdateProfile(ctx context.Context, topic, proficiency string) (Profile, error) {
	var profile Profile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row profileRow
		err := tx.First(&row, 1).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			row = profileRow{ID: 1, Proficiency: DefaultProficiency, Topics: "[]"}
		case err != nil:
			return fmt.Errorf("failed to load profile: %w", err)
		}

		current, convErr := rowToProfile(row)
		if convErr != nil {
			return convErr
		}

		if topic != "" && !containsTopic(current.TopicsCovered, topic) {
			current.TopicsCovered = append(current.TopicsCovered, topic)
		}
		if proficiency != "" {
			current.Proficiency = proficiency
		}

		encoded, marshalErr := json.Marshal(current.TopicsCovered)
		if marshalErr != nil {
			return fmt.Errorf("failed to encode topics: %w", marshalErr)
		}

		row.Proficiency = current.Proficiency
		row.Topics = string(encoded)
		row.UpdatedAt = time.Now().UTC()
		if saveErr := tx.Save(&row).Error; saveErr != nil {
			return fmt.Errorf("failed to save profile: %w", saveErr)
		}

		profile = current
		return nil
	})
	if err != nil {
		return Profile{}, err
	}
	return profile, nil
}

// LogInteraction persists one interaction event and returns its ID
func (s *Store) LogInteraction(ctx context.Context, event string, details map[string]any) (string, error) {
	encoded, err := json.Marshal(details)
	if err != nil {
		return "", fmt.Errorf("failed to encode interaction details: %w", err)
	}

	row := interactionRow{
		ID:        uuid.NewString(),
		Event:     event,
		Details:   string(encoded),
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", fmt.Errorf("failed to log interaction: %w", err)
	}
	return row.ID, nil
}

// Interactions returns the most recent interaction events, newest first
func (s *Store) Interactions(ctx context.Context, limit int) ([]Interaction, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []interactionRow
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list interactions: %w", err)
	}

	out := make([]Interaction, 0, len(rows))
	for _, row := range rows {
		details := make(map[string]any)
		if row.Details != "" {
			if err := json.Unmarshal([]byte(row.Details), &details); err != nil {
				s.logger.Warn("skipping undecodable interaction details",
					zap.String("id", row.ID),
					zap.Error(err))
			}
		}
		out = append(out, Interaction{
			ID:        row.ID,
			Event:     row.Event,
			Details:   details,
			CreatedAt: row.CreatedAt,
		})
	}
	return out, nil
}

// Close releases the underlying database connection
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func rowToProfile(row profileRow) (Profile, error) {
	topics := []string{}
	if row.Topics != "" {
		if err := json.Unmarshal([]byte(row.Topics), &topics); err != nil {
			return Profile{}, fmt.Errorf("failed to decode topics: %w", err)
		}
	}
	proficiency := row.Proficiency
	if proficiency == "" {
		proficiency = DefaultProficiency
	}
	return Profile{Proficiency: proficiency, TopicsCovered: topics}, nil
}

func containsTopic(topics []string, topic string) bool {
	for _, t := range topics {
		if t == topic {
			return true
		}
	}
	return false
}

// zapWriter adapts zap to gorm's logger writer interface
type zapWriter struct {
	logger *zap.Logger
}

func (w zapWriter) Printf(format string, args ...any) {
	w.logger.Sugar().Debugf(format, args...)
}
