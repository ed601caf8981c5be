package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/codequest-gg/gameserver/types"
)

// PlayerRepository handles Postgres persistence for players.
type PlayerRepository struct {
	db *sql.DB
}

func NewPlayerRepository(db *sql.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

const playerColumns = `id, username, level, total_score, completed_challenges, achievements, streak, last_played_at, password_hash, created_at, updated_at`

func (r *PlayerRepository) GetByID(ctx context.Context, id int) (types.Player, error) {
	const query = `
		SELECT ` + playerColumns + `
		FROM players
		WHERE id = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, id))
}

func (r *PlayerRepository) GetByUsername(ctx context.Context, username string) (types.Player, error) {
	const query = `
		SELECT ` + playerColumns + `
		FROM players
		WHERE username = $1`
	return r.scanPlayer(r.db.QueryRowContext(ctx, query, username))
}

func (r *PlayerRepository) Create(ctx context.Context, player types.Player) (types.Player, error) {
	now := time.Now()
	player.CreatedAt = now
	player.UpdatedAt = now
	if player.Level < 1 {
		player.Level = 1
	}

	completedJSON, achievementsJSON, err := marshalProgress(player)
	if err != nil {
		return types.Player{}, err
	}

	const query = `
		INSERT INTO players (username, level, total_score, completed_challenges, achievements, streak, last_played_at, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		player.Username,
		player.Level,
		player.TotalScore,
		completedJSON,
		achievementsJSON,
		player.Streak,
		nullableTime(player.LastPlayedAt),
		player.PasswordHash,
		player.CreatedAt,
		player.UpdatedAt,
	).Scan(&player.ID); err != nil {
		return types.Player{}, err
	}
	return player, nil
}

func (r *PlayerRepository) Update(ctx context.Context, player types.Player) (types.Player, error) {
	player.UpdatedAt = time.Now()

	completedJSON, achievementsJSON, err := marshalProgress(player)
	if err != nil {
		return types.Player{}, err
	}

	const query = `
		UPDATE players
		SET username = $1,
			level = $2,
			total_score = $3,
			completed_challenges = $4,
			achievements = $5,
			streak = $6,
			last_played_at = $7,
			password_hash = $8,
			updated_at = $9
		WHERE id = $10`
	result, err := r.db.ExecContext(
		ctx,
		query,
		player.Username,
		player.Level,
		player.TotalScore,
		completedJSON,
		achievementsJSON,
		player.Streak,
		nullableTime(player.LastPlayedAt),
		player.PasswordHash,
		player.UpdatedAt,
		player.ID,
	)
	if err != nil {
		return types.Player{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.Player{}, err
	}
	if affected == 0 {
		return types.Player{}, ErrNotFound
	}
	return player, nil
}

// ListTop returns up to limit players ordered by total score, highest
// first, for the leaderboard.
func (r *PlayerRepository) ListTop(ctx context.Context, limit int) ([]types.Player, error) {
	if limit < 1 {
		limit = 10
	}

	const query = `
		SELECT ` + playerColumns + `
		FROM players
		ORDER BY total_score DESC, id
		LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]types.Player, 0, limit)
	for rows.Next() {
		player, err := r.scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return players, nil
}

func (r *PlayerRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM players WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PlayerRepository) scanPlayer(row rowScanner) (types.Player, error) {
	var player types.Player
	var completedJSON, achievementsJSON []byte
	var lastPlayed sql.NullTime
	err := row.Scan(
		&player.ID,
		&player.Username,
		&player.Level,
		&player.TotalScore,
		&completedJSON,
		&achievementsJSON,
		&player.Streak,
		&lastPlayed,
		&player.PasswordHash,
		&player.CreatedAt,
		&player.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Player{}, ErrNotFound
		}
		return types.Player{}, err
	}

	_ = json.Unmarshal(completedJSON, &player.CompletedChallenges)
	_ = json.Unmarshal(achievementsJSON, &player.Achievements)
	if lastPlayed.Valid {
		player.LastPlayedAt = lastPlayed.Time
	}
	return player, nil
}

func marshalProgress(player types.Player) (completed, achievements []byte, err error) {
	if player.CompletedChallenges == nil {
		player.CompletedChallenges = []string{}
	}
	if player.Achievements == nil {
		player.Achievements = []types.Achievement{}
	}

	completed, err = json.Marshal(player.CompletedChallenges)
	if err != nil {
		return nil, nil, err
	}
	achievements, err = json.Marshal(player.Achievements)
	if err != nil {
		return nil, nil, err
	}
	return completed, achievements, nil
}

func nullableTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
