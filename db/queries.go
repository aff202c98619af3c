package db

import (
	sq "github.com/Masterminds/squirrel"

	"task-tracker/models"
)

var taskColumns = []string{"id", "title", "is_done", "created_at"}

const returningTask = "RETURNING id, title, is_done, created_at"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func listQuery() (string, []any, error) {
	return psql.Select(taskColumns...).
		From("tasks").
		OrderBy("created_at DESC", "id DESC").
		ToSql()
}

func insertQuery(title string) (string, []any, error) {
	return psql.Insert("tasks").
		Columns("title", "is_done").
		Values(title, false).
		Suffix(returningTask).
		ToSql()
}

// updateQuery sets exactly the columns present in patch. Each Set call adds
// its column and its bound value together, so they cannot drift apart.
func updateQuery(id int64, patch models.TaskPatch) (string, []any, error) {
	if patch.Empty() {
		return "", nil, ErrEmptyPatch
	}
	q := psql.Update("tasks")
	if patch.Title != nil {
		q = q.Set("title", *patch.Title)
	}
	if patch.IsDone != nil {
		q = q.Set("is_done", *patch.IsDone)
	}
	return q.Where(sq.Eq{"id": id}).Suffix(returningTask).ToSql()
}

func deleteQuery(id int64) (string, []any, error) {
	return psql.Delete("tasks").Where(sq.Eq{"id": id}).ToSql()
}
