package repository

import (
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/ignatzorin/classifieds-backend/internal/models"
)

// adWhere собирает условия выборки объявлений и их аргументы.
// Плейсхолдеры нумеруются по порядку добавления.
type adWhere struct {
	conds []string
	args  []interface{}
}

func (w *adWhere) add(cond string, arg interface{}) {
	w.args = append(w.args, arg)
	w.conds = append(w.conds, fmt.Sprintf(cond, len(w.args)))
}

func (w *adWhere) addRaw(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *adWhere) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// BuildAdWhere переводит AdQuery в WHERE для таблицы ads.
// Пустые критерии условий не добавляют.
func BuildAdWhere(q models.AdQuery) (string, []interface{}) {
	w := &adWhere{}

	if q.OwnerID != nil {
		w.add("owner_id = $%d", *q.OwnerID)
	}
	if q.Type != nil {
		w.add("type = $%d", *q.Type)
	}
	if q.PendingOnly {
		w.addRaw("end_date IS NULL")
	}
	if q.NotExpiredAt != nil {
		w.add("end_date >= $%d", *q.NotExpiredAt)
	}
	if q.ActiveOrAbsent {
		w.addRaw("(active IS NULL OR active = TRUE)")
	}
	if len(q.Regions) > 0 {
		w.add("regions && $%d::integer[]", pq.Array(q.Regions))
	}
	if len(q.Tags) > 0 {
		w.add("tags && $%d::integer[]", pq.Array(q.Tags))
	}
	if len(q.Offers) > 0 {
		w.add("offers && $%d::integer[]", pq.Array(q.Offers))
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		w.add("to_tsvector('simple', title || ' ' || description) @@ plainto_tsquery('simple', $%d)", search)
	}
	if q.VerifiedOnly {
		w.addRaw("verified = TRUE")
	}

	return w.sql(), w.args
}

// BuildAdSelect возвращает полный SELECT с сортировкой и окном выборки.
// Объявления без start_date идут последними, id делает порядок детерминированным.
func BuildAdSelect(q models.AdQuery) (string, []interface{}) {
	where, args := BuildAdWhere(q)

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(adColumns)
	sb.WriteString(" FROM ads")
	sb.WriteString(where)
	sb.WriteString(" ORDER BY start_date DESC NULLS LAST, id")

	if q.Limit > 0 {
		args = append(args, q.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}
	if q.Skip > 0 {
		args = append(args, q.Skip)
		fmt.Fprintf(&sb, " OFFSET $%d", len(args))
	}

	return sb.String(), args
}

// BuildAdUpdate переводит AdPatch в UPDATE одной строки.
// updated_at обновляется всегда, поэтому пустой патч тоже валиден.
func BuildAdUpdate(id string, p models.AdPatch) (string, []interface{}) {
	var (
		sets []string
		args []interface{}
	)
	set := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Price != nil {
		set("price", *p.Price)
	}
	if p.Images != nil {
		set("images", pq.Array(*p.Images))
	}
	if p.Tags != nil {
		set("tags", pq.Array(*p.Tags))
	}
	if p.Regions != nil {
		set("regions", pq.Array(*p.Regions))
	}
	if p.Offers != nil {
		set("offers", pq.Array(*p.Offers))
	}
	if p.Active != nil {
		set("active", *p.Active)
	}
	if p.StartDate != nil {
		set("start_date", *p.StartDate)
	}
	if p.EndDate != nil {
		set("end_date", *p.EndDate)
	}
	if p.PremiumEndDate != nil {
		set("premium_end_date", *p.PremiumEndDate)
	}
	if p.Verified != nil {
		set("verified", *p.Verified)
	}
	if p.ClearVerificationAttachment {
		sets = append(sets, "verification_attachment = NULL")
	}
	if p.AverageRating != nil {
		set("average_rating", *p.AverageRating)
	}
	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE ads SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))
	return query, args
}
