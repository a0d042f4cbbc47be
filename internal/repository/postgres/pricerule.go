package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Hacnine/CarHiveBackend/internal/domain"
	"github.com/Hacnine/CarHiveBackend/internal/repository"

	"github.com/lib/pq"
)

const priceRuleColumns = `id, type, name, start_date, end_date, weekdays, min_days, code, multiplier, flat_amount, active`

type priceRuleRepository struct {
	db *sql.DB
}

func NewPriceRuleRepository(db *sql.DB) repository.PriceRuleRepository {
	return &priceRuleRepository{db: db}
}

func scanPriceRule(row interface{ Scan(...any) error }) (*domain.PriceRule, error) {
	r := &domain.PriceRule{}
	var weekdays pq.Int64Array
	var code sql.NullString
	err := row.Scan(
		&r.ID, &r.Type, &r.Name, &r.StartDate, &r.EndDate, &weekdays,
		&r.MinDays, &code, &r.Multiplier, &r.FlatAmount, &r.Active,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: price rule", domain.ErrNotFound)
		}
		return nil, err
	}
	for _, d := range weekdays {
		r.Weekdays = append(r.Weekdays, time.Weekday(d))
	}
	r.Code = code.String
	return r, nil
}

// ListActive returns the evaluation rule set ordered by id, which is the
// composition order the pricing engine applies.
func (r *priceRuleRepository) ListActive(ctx context.Context) ([]domain.PriceRule, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+priceRuleColumns+` FROM price_rules WHERE active AND type <> $1 ORDER BY id`,
		domain.RuleTypePromo,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rules []domain.PriceRule
	for rows.Next() {
		rule, err := scanPriceRule(rows)
		if err != nil {
			return nil, err
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

func (r *priceRuleRepository) GetPromoByCode(ctx context.Context, code string) (*domain.PriceRule, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+priceRuleColumns+` FROM price_rules WHERE type = $1 AND code = $2 AND active`,
		domain.RuleTypePromo, code,
	)
	rule, err := scanPriceRule(row)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: promo code %q", domain.ErrNotFound, code)
		}
		return nil, err
	}
	return rule, nil
}

func (r *priceRuleRepository) ListAddOns(ctx context.Context, ids []int64) ([]domain.AddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, unit_price, per_day FROM addons WHERE id = ANY($1)`,
		pq.Array(ids),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addons []domain.AddOn
	for rows.Next() {
		var a domain.AddOn
		if err := rows.Scan(&a.ID, &a.Name, &a.UnitPrice, &a.PerDay); err != nil {
			return nil, err
		}
		addons = append(addons, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(addons) != len(ids) {
		return nil, fmt.Errorf("%w: one or more add-ons", domain.ErrNotFound)
	}
	return addons, nil
}
