package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/student-records-api/internal/models"
)

var addressListSpec = listSpec{
	from:          "FROM addresses a",
	searchColumns: []string{"a.address_line_1", "a.city", "a.province", "a.postal_code"},
	filterColumns: map[string]string{"city": "a.city", "province": "a.province"},
	sortColumns: map[string]string{
		"id":          "a.id",
		"city":        "a.city",
		"province":    "a.province",
		"postal_code": "a.postal_code",
	},
	defaultSort: "a.id",
}

const addressColumns = "a.id, a.address_line_1, a.address_line_2, a.city, a.province, a.postal_code"

// AddressRepository manages persistence for addresses.
type AddressRepository struct {
	db *sqlx.DB
}

// NewAddressRepository constructs an AddressRepository.
func NewAddressRepository(db *sqlx.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// List returns addresses matching the filter and the total match count.
func (r *AddressRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Address, int, error) {
	q := addressListSpec.build(filter)
	var items []models.Address
	if err := r.db.SelectContext(ctx, &items, q.selectSQL(addressColumns, addressListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("list addresses: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, q.countSQL(addressListSpec.from), q.args...); err != nil {
		return nil, 0, fmt.Errorf("count addresses: %w", err)
	}
	return items, total, nil
}

// FindByID fetches a single address.
func (r *AddressRepository) FindByID(ctx context.Context, id int64) (*models.Address, error) {
	var item models.Address
	query := fmt.Sprintf("SELECT %s FROM addresses a WHERE a.id = $1", addressColumns)
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts an address and fills its ID.
func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	const query = `INSERT INTO addresses (address_line_1, address_line_2, city, province, postal_code)
        VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, address.AddressLine1, address.AddressLine2, address.City, address.Province, address.PostalCode).Scan(&address.ID); err != nil {
		return fmt.Errorf("create address: %w", err)
	}
	return nil
}

// Update overwrites an existing address.
func (r *AddressRepository) Update(ctx context.Context, address *models.Address) error {
	const query = `UPDATE addresses SET address_line_1 = :address_line_1, address_line_2 = :address_line_2, city = :city, province = :province, postal_code = :postal_code WHERE id = :id`
	res, err := r.db.NamedExecContext(ctx, query, address)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	return expectAffected(res)
}

// Delete removes an address. Students still pointing at it block the delete.
func (r *AddressRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM addresses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
