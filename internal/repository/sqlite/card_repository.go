package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/vytor/klar/internal/logger"
	"github.com/vytor/klar/internal/models"
	"github.com/vytor/klar/internal/repository"
)

var cardColumns = []string{
	"id", "study_set_id", "question", "answer", "keywords", "image_path",
	"level", "level_correct_count", "practice_count", "consecutive_wrong", "priority_factor",
	"correct_count", "wrong_count", "total_practice_count", "last_practiced_at", "created_at",
}

type cardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new CardRepository implementation
func NewCardRepository(db *sqlx.DB) repository.CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Get(ctx context.Context, id int64) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("getting card: id=%d", id)

	query, args, err := sqlBuilder.Select(cardColumns...).From("cards").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var c models.Card
	err = r.db.GetContext(ctx, &c, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("card not found: id=%d", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get card: %v", err)
		return nil, err
	}
	return &c, nil
}

func filterCards(query squirrel.SelectBuilder, filter models.CardFilter) squirrel.SelectBuilder {
	if filter.StudySetID != 0 {
		query = query.Where(squirrel.Eq{"study_set_id": filter.StudySetID})
	}
	if filter.Level != 0 {
		query = query.Where(squirrel.Eq{"level": filter.Level})
	}
	return query
}

func (r *cardRepository) List(ctx context.Context, filter models.CardFilter) ([]models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("listing cards: study_set_id=%d, level=%d, limit=%d, offset=%d",
		filter.StudySetID, filter.Level, filter.Limit, filter.Offset)

	query := filterCards(sqlBuilder.Select(cardColumns...).From("cards"), filter).OrderBy("id")
	if filter.Limit > 0 {
		query = query.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		if filter.Limit <= 0 {
			// SQLite needs a LIMIT before OFFSET
			query = query.Limit(uint64(1<<63 - 1))
		}
		query = query.Offset(uint64(filter.Offset))
	}

	q, args, err := query.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	cards := []models.Card{}
	if err := r.db.SelectContext(ctx, &cards, q, args...); err != nil {
		log.Error("failed to list cards: %v", err)
		return nil, err
	}
	log.Debug("found %d cards", len(cards))
	return cards, nil
}

func (r *cardRepository) Count(ctx context.Context, filter models.CardFilter) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")

	q, args, err := filterCards(sqlBuilder.Select("COUNT(*)").From("cards"), filter).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}

	var count int
	if err := r.db.GetContext(ctx, &count, q, args...); err != nil {
		log.Error("failed to count cards: %v", err)
		return 0, err
	}
	return count, nil
}

func insertCardQuery(c models.Card) squirrel.InsertBuilder {
	return sqlBuilder.Insert("cards").
		Columns("study_set_id", "question", "answer", "keywords", "image_path",
			"level", "level_correct_count", "practice_count", "consecutive_wrong", "priority_factor",
			"correct_count", "wrong_count", "total_practice_count", "last_practiced_at").
		Values(c.StudySetID, c.Question, c.Answer, c.Keywords, c.ImagePath,
			c.Level, c.LevelCorrectCount, c.PracticeCount, c.ConsecutiveWrong, c.PriorityFactor,
			c.CorrectCount, c.WrongCount, c.TotalPracticeCount, c.LastPracticedAt)
}

func (r *cardRepository) Insert(ctx context.Context, c models.Card) (*models.Card, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting card: study_set_id=%d", c.StudySetID)

	q, args, err := insertCardQuery(c).Suffix("RETURNING *").ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}

	var out models.Card
	if err := r.db.QueryRowxContext(ctx, q, args...).StructScan(&out); err != nil {
		log.Error("failed to insert card: %v", err)
		return nil, translate(err)
	}
	log.Debug("card inserted: id=%d", out.ID)
	return &out, nil
}

func (r *cardRepository) InsertBatch(ctx context.Context, cards []models.Card) ([]int64, error) {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("inserting %d cards", len(cards))

	ids := make([]int64, 0, len(cards))
	err := tx(ctx, r.db, func(tx *sqlx.Tx) error {
		for _, c := range cards {
			q, args, err := insertCardQuery(c).ToSql()
			if err != nil {
				return err
			}
			res, err := tx.ExecContext(ctx, q, args...)
			if err != nil {
				return translate(err)
			}
			id, err := res.LastInsertId()
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		log.Error("failed to insert cards: %v", err)
		return nil, err
	}
	log.Debug("inserted %d cards", len(ids))
	return ids, nil
}

func (r *cardRepository) UpdateContent(ctx context.Context, c models.Card) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("updating card content: id=%d", c.ID)

	res, err := r.db.ExecContext(ctx, `
UPDATE cards
SET question = ?, answer = ?, keywords = ?, image_path = ?
WHERE id = ?
`, c.Question, c.Answer, c.Keywords, c.ImagePath, c.ID)
	if err != nil {
		log.Error("failed to update card: %v", err)
		return err
	}
	return affectedOne(res, repository.ErrNotFound)
}

func (r *cardRepository) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx).WithPrefix("card_repo")
	log.Debug("deleting card: id=%d", id)

	res, err := r.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card: %v", err)
		return err
	}
	return affectedOne(res, repository.ErrNotFound)
}
