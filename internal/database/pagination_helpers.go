package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/battlepets/engine/internal/pagination"
	"github.com/jmoiron/sqlx"
)

// Common pagination constants
const (
	DefaultSortColumn = "created_at"
	LimitOffsetClause = " LIMIT ? OFFSET ?"

	// PetSelectQuery is the base query for selecting pets.
	PetSelectQuery = `
		SELECT id, owner_id, nickname, species_id, breed, rarity, level,
		       ability_ids, created_at, updated_at
		FROM pets
		WHERE owner_id = ?`
)

// PaginatedRepository provides pagination helpers for repositories
type PaginatedRepository struct {
	db *DB
}

// NewPaginatedRepository creates a new paginated repository
func NewPaginatedRepository(db *DB) *PaginatedRepository {
	return &PaginatedRepository{db: db}
}

// GetPetsPaginated returns one owner's pets, offset-paginated and
// optionally filtered by species or minimum level.
func (pr *PaginatedRepository) GetPetsPaginated(ctx context.Context, ownerID string, params *pagination.PaginationParams) (*pagination.PageResult, error) {
	baseQuery := PetSelectQuery
	countQuery := `SELECT COUNT(*) FROM pets WHERE owner_id = ?`

	var whereClauses []string
	var args []interface{}
	args = append(args, ownerID)

	if speciesID, ok := params.Filters["species_id"].(int); ok && speciesID > 0 {
		whereClauses = append(whereClauses, "species_id = ?")
		args = append(args, speciesID)
	}

	if minLevel, ok := params.Filters["min_level"].(int); ok && minLevel > 0 {
		whereClauses = append(whereClauses, "level >= ?")
		args = append(args, minLevel)
	}

	if len(whereClauses) > 0 {
		whereClause := " AND " + strings.Join(whereClauses, " AND ")
		baseQuery += whereClause
		countQuery += whereClause
	}

	sortColumn := DefaultSortColumn
	if params.SortBy != "" {
		validColumns := map[string]bool{
			"nickname":   true,
			"level":      true,
			"rarity":     true,
			"species_id": true,
			"created_at": true,
			"updated_at": true,
		}
		if validColumns[params.SortBy] {
			sortColumn = params.SortBy
		}
	}
	baseQuery += fmt.Sprintf(" ORDER BY %s %s", sortColumn, params.SortDir)

	baseQuery += LimitOffsetClause
	args = append(args, params.Limit, params.GetOffset())

	var total int64
	countArgs := args[:len(args)-2] // Exclude LIMIT and OFFSET
	err := pr.db.QueryRowContext(ctx, pr.db.Rebind(countQuery), countArgs...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count pets: %w", err)
	}

	var rows []*petRow
	reboundQuery := pr.db.Rebind(baseQuery)
	if err := pr.db.SelectContext(ctx, &rows, reboundQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to query pets: %w", err)
	}

	pets := make([]*PetRecord, len(rows))
	for i, row := range rows {
		pets[i] = row.toRecord()
	}

	return pagination.NewPageResult(pets, params, total), nil
}

// GetBattleSessionsPaginated returns battle sessions across all owners,
// offset-paginated and optionally filtered by status.
func (pr *PaginatedRepository) GetBattleSessionsPaginated(ctx context.Context, params *pagination.PaginationParams) (*pagination.PageResult, error) {
	baseQuery := `
		SELECT id, status, seed, team_a_owner_id, team_b_owner_id,
		       winner_team_id, draw, rounds, created_at, updated_at, ended_at
		FROM battle_sessions
		WHERE 1=1`

	countQuery := `SELECT COUNT(*) FROM battle_sessions WHERE 1=1`

	var whereClauses []string
	var args []interface{}

	if status, ok := params.Filters["status"].(string); ok && status != "" {
		whereClauses = append(whereClauses, "status = ?")
		args = append(args, status)
	}

	if ownerID, ok := params.Filters["owner_id"].(string); ok && ownerID != "" {
		whereClauses = append(whereClauses, "(team_a_owner_id = ? OR team_b_owner_id = ?)")
		args = append(args, ownerID, ownerID)
	}

	if len(whereClauses) > 0 {
		whereClause := " AND " + strings.Join(whereClauses, " AND ")
		baseQuery += whereClause
		countQuery += whereClause
	}

	sortColumn := DefaultSortColumn
	if params.SortBy != "" {
		validColumns := map[string]bool{
			"status":     true,
			"rounds":     true,
			"created_at": true,
			"updated_at": true,
			"ended_at":   true,
		}
		if validColumns[params.SortBy] {
			sortColumn = params.SortBy
		}
	}
	baseQuery += fmt.Sprintf(" ORDER BY %s %s", sortColumn, params.SortDir)

	baseQuery += LimitOffsetClause
	args = append(args, params.Limit, params.GetOffset())

	var total int64
	countArgs := args[:len(args)-2]
	err := pr.db.QueryRowContext(ctx, pr.db.Rebind(countQuery), countArgs...).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("failed to count battle sessions: %w", err)
	}

	var sessions []*BattleSessionRecord
	reboundQuery := pr.db.Rebind(baseQuery)
	err = pr.db.SelectContext(ctx, &sessions, reboundQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query battle sessions: %w", err)
	}

	return pagination.NewPageResult(sessions, params, total), nil
}

// CursorPaginationHelper helps with cursor-based pagination
type CursorPaginationHelper struct {
	db *DB
}

// NewCursorPaginationHelper creates a new cursor pagination helper
func NewCursorPaginationHelper(db *DB) *CursorPaginationHelper {
	return &CursorPaginationHelper{db: db}
}

// GetPetsCursor returns cursor-paginated pets for one owner.
func (cph *CursorPaginationHelper) GetPetsCursor(ctx context.Context, ownerID string, params *pagination.PaginationParams) (*pagination.CursorResult, error) {
	var rows []*petRow
	query := PetSelectQuery

	args := []interface{}{ownerID}

	if params.Cursor != "" {
		cursor, err := pagination.DecodeCursor(params.Cursor)
		if err != nil {
			return nil, fmt.Errorf("invalid cursor: %w", err)
		}

		if params.SortDir == "desc" {
			query += " AND created_at < ?"
		} else {
			query += " AND created_at > ?"
		}
		args = append(args, cursor.Timestamp)
	}

	query += fmt.Sprintf(" ORDER BY created_at %s, id %s LIMIT ?", params.SortDir, params.SortDir)
	args = append(args, params.Limit+1) // Get one extra to check if there's more

	reboundQuery := cph.db.Rebind(query)
	if err := cph.db.SelectContext(ctx, &rows, reboundQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to query pets: %w", err)
	}

	hasMore := len(rows) > params.Limit
	if hasMore {
		rows = rows[:params.Limit]
	}

	pets := make([]*PetRecord, len(rows))
	for i, row := range rows {
		pets[i] = row.toRecord()
	}

	var nextCursor *pagination.Cursor
	if hasMore && len(pets) > 0 {
		last := pets[len(pets)-1]
		nextCursor = &pagination.Cursor{
			ID:        last.ID,
			Timestamp: last.UpdatedAt,
		}
	}

	return pagination.NewCursorResult(pets, params, nextCursor, nil), nil
}

// BatchPaginator helps paginate through large datasets for batch processing
type BatchPaginator struct {
	db        *DB
	query     string
	args      []interface{}
	batchSize int
	lastID    string
}

// NewBatchPaginator creates a new batch paginator
func NewBatchPaginator(db *DB, query string, args []interface{}, batchSize int) *BatchPaginator {
	return &BatchPaginator{
		db:        db,
		query:     query,
		args:      args,
		batchSize: batchSize,
	}
}

// NextBatch retrieves the next batch of results
func (bp *BatchPaginator) NextBatch(ctx context.Context, scanFunc func(*sqlx.Rows) error) (hasMore bool, err error) {
	batchQuery := bp.query
	args := bp.args

	// Add cursor condition if not first batch
	if bp.lastID != "" {
		batchQuery += " AND id > ?"
		args = append(args, bp.lastID)
	}

	// Add ordering and limit
	batchQuery += " ORDER BY id ASC LIMIT ?"
	args = append(args, bp.batchSize+1)

	// Execute query
	rows, err := bp.db.QueryxContext(ctx, bp.db.Rebind(batchQuery), args...)
	if err != nil {
		return false, err
	}
	defer rows.Close()

	count := 0
	var lastID string

	for rows.Next() {
		if count >= bp.batchSize {
			hasMore = true
			break
		}

		if err := scanFunc(rows); err != nil {
			return false, err
		}

		// Get the ID for cursor (assumes first column is ID)
		var id string
		if err := rows.Scan(&id); err != nil {
			return false, fmt.Errorf("failed to scan id: %w", err)
		}
		lastID = id
		count++
	}

	bp.lastID = lastID
	return hasMore, nil
}
