package storage

import (
	"github.com/uptrace/bun"

	"github.com/goliatone/go-task-catalog/catalog"
)

// SelectCriteria narrows a select query.
type SelectCriteria func(*bun.SelectQuery) *bun.SelectQuery

// criteriaFor turns a predicate into select criteria. Nil predicate fields
// produce no criteria.
func criteriaFor(p catalog.Predicate) []SelectCriteria {
	var criteria []SelectCriteria
	if p.Status != nil {
		criteria = append(criteria, whereEquals("status", string(*p.Status)))
	}
	if p.Priority != nil {
		criteria = append(criteria, whereEquals("priority", string(*p.Priority)))
	}
	if p.CreatedFrom != nil {
		from := p.CreatedFrom.UTC()
		criteria = append(criteria, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.created_at >= ?", from)
		})
	}
	if p.CreatedTo != nil {
		to := p.CreatedTo.UTC()
		criteria = append(criteria, func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.created_at <= ?", to)
		})
	}
	return criteria
}

func whereEquals(column, value string) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.? = ?", bun.Ident(column), value)
	}
}

// orderBy sorts by creation time with id as the tie breaker.
func orderBy(o catalog.Order) SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		if o == catalog.OrderOldestFirst {
			return q.Order("created_at ASC", "id ASC")
		}
		return q.Order("created_at DESC", "id DESC")
	}
}

func applyCriteria(q *bun.SelectQuery, criteria ...SelectCriteria) *bun.SelectQuery {
	for _, c := range criteria {
		if c != nil {
			q = c(q)
		}
	}
	return q
}
