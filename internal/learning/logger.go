package learning

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/daeunko/curator/internal/db"
	"github.com/daeunko/curator/internal/taste"
)

// Turn is one logged conversation exchange.
type Turn struct {
	ID          string
	SessionID   string
	UserMessage string
	AIResponse  string
	Type        ConversationType
	Tone        UserTone
	Keywords    []string
	Taste       taste.Vector
	CreatedAt   time.Time
}

// FrequentQuestion is a learned question pattern with its observed count.
type FrequentQuestion struct {
	Pattern   string `json:"pattern"`
	Frequency int    `json:"frequency"`
}

// Stats summarizes the learning tables.
type Stats struct {
	TotalConversations int      `json:"totalConversations"`
	UniqueSessions     int      `json:"uniqueSessions"`
	TopKeywords        []string `json:"topKeywords"`
	TopQuestions       []string `json:"topQuestions"`
}

// Logger persists turns and pattern frequencies to sqlite.
type Logger struct {
	db *db.DB
}

// NewLogger creates a Logger over the given database.
func NewLogger(database *db.DB) *Logger {
	return &Logger{db: database}
}

// LogTurn stores the turn and bumps the frequency of every keyword it
// carries, plus the question pattern when the turn is a question. Callers
// treat it fire-and-forget; a partial failure leaves earlier increments in
// place, which is acceptable for statistics.
func (l *Logger) LogTurn(ctx context.Context, turn Turn) error {
	if turn.ID == "" {
		turn.ID = uuid.NewString()
	}
	if turn.SessionID == "" {
		return errors.New("turn session ID is required")
	}

	keywordsJSON, err := json.Marshal(turn.Keywords)
	if err != nil {
		return fmt.Errorf("encoding keywords: %w", err)
	}
	tasteJSON, err := json.Marshal(turn.Taste)
	if err != nil {
		return fmt.Errorf("encoding taste vector: %w", err)
	}

	_, err = l.db.ExecContext(ctx, `
		INSERT INTO chat_logs (id, session_id, user_message, ai_response, conversation_type, user_tone, extracted_keywords, taste_vector)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		turn.ID, turn.SessionID, turn.UserMessage, turn.AIResponse,
		string(turn.Type), string(turn.Tone), string(keywordsJSON), string(tasteJSON),
	)
	if err != nil {
		return fmt.Errorf("inserting chat log: %w", err)
	}

	for _, kw := range turn.Keywords {
		if err := l.increment(ctx, "keyword", kw); err != nil {
			return err
		}
	}

	if turn.Type == TypeQuestion {
		if pattern, ok := QuestionPattern(turn.UserMessage); ok {
			if err := l.increment(ctx, "question", pattern); err != nil {
				return err
			}
		}
	}

	return nil
}

// increment bumps one pattern counter. The UPSERT is a single statement,
// so concurrent turns never lose increments.
func (l *Logger) increment(ctx context.Context, patternType, value string) error {
	_, err := l.db.ExecContext(ctx, `
		INSERT INTO pattern_frequencies (pattern_type, pattern_value, frequency, last_seen)
		VALUES (?, ?, 1, datetime('now'))
		ON CONFLICT(pattern_type, pattern_value)
		DO UPDATE SET frequency = frequency + 1, last_seen = datetime('now')`,
		patternType, value,
	)
	if err != nil {
		return fmt.Errorf("incrementing %s pattern %q: %w", patternType, value, err)
	}
	return nil
}

// PatternFrequency returns the observed count for one question pattern,
// zero when it has never been seen.
func (l *Logger) PatternFrequency(ctx context.Context, pattern string) (int, error) {
	var freq int
	err := l.db.QueryRowContext(ctx,
		`SELECT frequency FROM pattern_frequencies WHERE pattern_type = 'question' AND pattern_value = ?`,
		pattern,
	).Scan(&freq)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying pattern frequency: %w", err)
	}
	return freq, nil
}

// PopularKeywords returns the most frequent keywords, most recent first
// among ties.
func (l *Logger) PopularKeywords(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT pattern_value FROM pattern_frequencies
		WHERE pattern_type = 'keyword'
		ORDER BY frequency DESC, last_seen DESC, pattern_value ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying popular keywords: %w", err)
	}
	defer rows.Close()

	var keywords []string
	for rows.Next() {
		var kw string
		if err := rows.Scan(&kw); err != nil {
			return nil, fmt.Errorf("scanning keyword: %w", err)
		}
		keywords = append(keywords, kw)
	}
	return keywords, rows.Err()
}

// FrequentQuestions returns the most asked question patterns with counts,
// most recent first among ties.
func (l *Logger) FrequentQuestions(ctx context.Context, limit int) ([]FrequentQuestion, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := l.db.QueryContext(ctx, `
		SELECT pattern_value, frequency FROM pattern_frequencies
		WHERE pattern_type = 'question'
		ORDER BY frequency DESC, last_seen DESC, pattern_value ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying frequent questions: %w", err)
	}
	defer rows.Close()

	var questions []FrequentQuestion
	for rows.Next() {
		var q FrequentQuestion
		if err := rows.Scan(&q.Pattern, &q.Frequency); err != nil {
			return nil, fmt.Errorf("scanning question pattern: %w", err)
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// Stats aggregates the learning tables into a dashboard summary.
func (l *Logger) Stats(ctx context.Context) (*Stats, error) {
	var s Stats
	err := l.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT session_id) FROM chat_logs`,
	).Scan(&s.TotalConversations, &s.UniqueSessions)
	if err != nil {
		return nil, fmt.Errorf("counting conversations: %w", err)
	}

	if s.TopKeywords, err = l.PopularKeywords(ctx, 5); err != nil {
		return nil, err
	}

	questions, err := l.FrequentQuestions(ctx, 5)
	if err != nil {
		return nil, err
	}
	for _, q := range questions {
		s.TopQuestions = append(s.TopQuestions, q.Pattern)
	}
	return &s, nil
}
