package services

import (
	"database/sql"

	"github.com/dakshcoder1/Capstone-project-Final/internal/models"
)

// HistoryServiceProvider defines the interface for the history ledger.
type HistoryServiceProvider interface {
	Append(record models.HistoryRecord) (models.HistoryRecord, error)
	GetForUser(userID int64) ([]models.HistoryRecord, error)
	GetAll() ([]models.HistoryRecord, error)
	CountRecords() (int, error)
}

// HistoryService provides the append-only per-user ledger of tool invocations.
type HistoryService struct {
	db *sql.DB
}

// NewHistoryService creates a new HistoryService.
func NewHistoryService(db *sql.DB) *HistoryService {
	return &HistoryService{db: db}
}

// Append persists one history record and its input image references in a
// single transaction, and returns the stored record with server-assigned id
// and timestamp. The foreign key rejects records for a missing owner.
func (s *HistoryService) Append(record models.HistoryRecord) (models.HistoryRecord, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.HistoryRecord{}, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO history (tool_name, input_text, output_text, output_img, user_id) VALUES (?, ?, ?, ?, ?)",
		record.ToolName, record.InputText, record.OutputText, record.OutputImg, record.UserID,
	)
	if err != nil {
		return models.HistoryRecord{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.HistoryRecord{}, err
	}
	record.ID = id

	for i, filename := range record.InputImages {
		if _, err := tx.Exec(
			"INSERT INTO history_inputs (history_id, position, filename) VALUES (?, ?, ?)",
			id, i, filename,
		); err != nil {
			return models.HistoryRecord{}, err
		}
	}

	if err := tx.QueryRow("SELECT created_at FROM history WHERE id = ?", id).Scan(&record.CreatedAt); err != nil {
		return models.HistoryRecord{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.HistoryRecord{}, err
	}
	return record, nil
}

// GetForUser retrieves one user's records in insertion order (id ascending).
func (s *HistoryService) GetForUser(userID int64) ([]models.HistoryRecord, error) {
	rows, err := s.db.Query(
		"SELECT id, tool_name, input_text, output_text, output_img, user_id, created_at FROM history WHERE user_id = ? ORDER BY id ASC",
		userID,
	)
	if err != nil {
		return nil, err
	}

	records, index, err := scanRecords(rows)
	if err != nil {
		return nil, err
	}

	inputRows, err := s.db.Query(
		`SELECT hi.history_id, hi.filename
		 FROM history_inputs hi
		 JOIN history h ON h.id = hi.history_id
		 WHERE h.user_id = ?
		 ORDER BY hi.history_id, hi.position`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	if err := attachInputs(inputRows, index); err != nil {
		return nil, err
	}
	return records, nil
}

// GetAll retrieves every record with its owner's username resolved, oldest
// first by creation timestamp.
func (s *HistoryService) GetAll() ([]models.HistoryRecord, error) {
	rows, err := s.db.Query(
		`SELECT h.id, h.tool_name, h.input_text, h.output_text, h.output_img, h.user_id, h.created_at, u.username
		 FROM history h
		 JOIN users u ON u.id = h.user_id
		 ORDER BY h.created_at ASC, h.id ASC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.HistoryRecord
	index := make(map[int64]*models.HistoryRecord)
	for rows.Next() {
		var record models.HistoryRecord
		err := rows.Scan(&record.ID, &record.ToolName, &record.InputText, &record.OutputText,
			&record.OutputImg, &record.UserID, &record.CreatedAt, &record.Username)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range records {
		index[records[i].ID] = &records[i]
	}

	inputRows, err := s.db.Query(
		"SELECT history_id, filename FROM history_inputs ORDER BY history_id, position",
	)
	if err != nil {
		return nil, err
	}
	if err := attachInputs(inputRows, index); err != nil {
		return nil, err
	}
	return records, nil
}

// CountRecords returns the total number of history records.
func (s *HistoryService) CountRecords() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM history").Scan(&count)
	return count, err
}

// scanRecords drains a history result set and returns the records together
// with an id index for attaching input image references afterwards.
func scanRecords(rows *sql.Rows) ([]models.HistoryRecord, map[int64]*models.HistoryRecord, error) {
	defer rows.Close()

	var records []models.HistoryRecord
	for rows.Next() {
		var record models.HistoryRecord
		err := rows.Scan(&record.ID, &record.ToolName, &record.InputText, &record.OutputText,
			&record.OutputImg, &record.UserID, &record.CreatedAt)
		if err != nil {
			return nil, nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	index := make(map[int64]*models.HistoryRecord, len(records))
	for i := range records {
		index[records[i].ID] = &records[i]
	}
	return records, index, nil
}

// attachInputs folds (history_id, filename) rows into the indexed records.
func attachInputs(rows *sql.Rows, index map[int64]*models.HistoryRecord) error {
	defer rows.Close()

	for rows.Next() {
		var historyID int64
		var filename string
		if err := rows.Scan(&historyID, &filename); err != nil {
			return err
		}
		if record, ok := index[historyID]; ok {
			record.InputImages = append(record.InputImages, filename)
		}
	}
	return rows.Err()
}
