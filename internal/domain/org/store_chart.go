package org

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

func (s *Store) ListChartNodes(ctx context.Context, companyID string) ([]ChartNode, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id, company_id, name, title, level, node_order,
           COALESCE(parent_id::text, ''), COALESCE(employee_id::text, ''), created_at
    FROM org_chart_nodes
    WHERE company_id = $1
    ORDER BY level, node_order
  `, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ChartNode
	for rows.Next() {
		var n ChartNode
		if err := rows.Scan(&n.ID, &n.CompanyID, &n.Name, &n.Title, &n.Level, &n.Order, &n.ParentID, &n.EmployeeID, &n.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

func (s *Store) GetChartNode(ctx context.Context, id string) (ChartNode, error) {
	var n ChartNode
	err := s.DB.QueryRow(ctx, `
    SELECT id, company_id, name, title, level, node_order,
           COALESCE(parent_id::text, ''), COALESCE(employee_id::text, ''), created_at
    FROM org_chart_nodes
    WHERE id = $1
  `, id).Scan(&n.ID, &n.CompanyID, &n.Name, &n.Title, &n.Level, &n.Order, &n.ParentID, &n.EmployeeID, &n.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ChartNode{}, ErrNotFound
	}
	return n, err
}

func (s *Store) CreateChartNode(ctx context.Context, companyID string, n ChartNode) (ChartNode, error) {
	var out ChartNode
	err := s.DB.QueryRow(ctx, `
    INSERT INTO org_chart_nodes (company_id, name, title, level, node_order, parent_id, employee_id)
    VALUES ($1,$2,$3,$4,$5,NULLIF($6,'')::uuid,NULLIF($7,'')::uuid)
    RETURNING id, company_id, name, title, level, node_order,
              COALESCE(parent_id::text, ''), COALESCE(employee_id::text, ''), created_at
  `, companyID, n.Name, n.Title, n.Level, n.Order, n.ParentID, n.EmployeeID).Scan(
		&out.ID, &out.CompanyID, &out.Name, &out.Title, &out.Level, &out.Order, &out.ParentID, &out.EmployeeID, &out.CreatedAt,
	)
	return out, err
}

func (s *Store) UpdateChartNode(ctx context.Context, id string, n ChartNode) (ChartNode, error) {
	var out ChartNode
	err := s.DB.QueryRow(ctx, `
    UPDATE org_chart_nodes
    SET name = $1, title = $2, level = $3, node_order = $4,
        parent_id = NULLIF($5,'')::uuid, employee_id = NULLIF($6,'')::uuid
    WHERE id = $7
    RETURNING id, company_id, name, title, level, node_order,
              COALESCE(parent_id::text, ''), COALESCE(employee_id::text, ''), created_at
  `, n.Name, n.Title, n.Level, n.Order, n.ParentID, n.EmployeeID, id).Scan(
		&out.ID, &out.CompanyID, &out.Name, &out.Title, &out.Level, &out.Order, &out.ParentID, &out.EmployeeID, &out.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return ChartNode{}, ErrNotFound
	}
	return out, err
}

// DeleteChartNode refuses to remove a node that still has children. The
// check and the delete share one transaction.
func (s *Store) DeleteChartNode(ctx context.Context, id string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var children int
	if err := tx.QueryRow(ctx, "SELECT COUNT(1) FROM org_chart_nodes WHERE parent_id = $1", id).Scan(&children); err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("%w: cannot delete a node that has child nodes", ErrConflict)
	}

	tag, err := tx.Exec(ctx, "DELETE FROM org_chart_nodes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return tx.Commit(ctx)
}
