package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yeremiapane/table-ordering/models"
	"gorm.io/gorm"
)

// OrderCard groups one order with the staff calls and reviews raised between
// it and the session's next order. Order is nil for a session that never
// ordered but still has calls or reviews.
type OrderCard struct {
	Order      *models.Order      `json:"order"`
	StaffCalls []models.StaffCall `json:"staffCalls"`
	Reviews    []models.Review    `json:"reviews"`
	Time       time.Time          `json:"time"`
}

type SessionView struct {
	models.TableSession
	Orders     []models.Order     `json:"orders"`
	StaffCalls []models.StaffCall `json:"staffCalls"`
	Reviews    []models.Review    `json:"reviews"`
	Cards      []OrderCard        `json:"cards"`
}

type TableHistory struct {
	TableName string        `json:"tableName"`
	Sessions  []SessionView `json:"sessions"`
}

type HistoryFilter struct {
	Date  *time.Time
	Table string
}

// AdminFeed is what the admin dashboard polls.
type AdminFeed struct {
	Orders       []models.Order     `json:"orders"`
	OrderRequest []models.Order     `json:"orderRequest"`
	OrderActive  []models.Order     `json:"orderActive"`
	StaffCalls   []models.StaffCall `json:"staffCalls"`
	Sessions     []SessionView      `json:"sessions"`
}

type HistoryService struct {
	DB *gorm.DB
}

func NewHistoryService(db *gorm.DB) *HistoryService {
	return &HistoryService{DB: db}
}

// DedupSessions keeps one record per sessionId. A closed record beats an open
// one; otherwise the most recently updated wins. Output is newest first.
func DedupSessions(sessions []models.TableSession) []models.TableSession {
	best := make(map[string]models.TableSession, len(sessions))
	for _, s := range sessions {
		cur, ok := best[s.SessionID]
		if !ok || preferSession(s, cur) {
			best[s.SessionID] = s
		}
	}

	out := make([]models.TableSession, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

func preferSession(candidate, current models.TableSession) bool {
	if candidate.IsOpen() != current.IsOpen() {
		return !candidate.IsOpen()
	}
	return candidate.UpdatedAt.After(current.UpdatedAt)
}

// BuildCards buckets calls and reviews onto orders by time. Events before the
// first order join the first card. Cards come back newest first.
func BuildCards(orders []models.Order, calls []models.StaffCall, reviews []models.Review) []OrderCard {
	sorted := make([]models.Order, len(orders))
	copy(sorted, orders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	if len(sorted) == 0 {
		if len(calls) == 0 && len(reviews) == 0 {
			return []OrderCard{}
		}
		card := OrderCard{StaffCalls: calls, Reviews: reviews}
		for _, c := range calls {
			if c.CreatedAt.After(card.Time) {
				card.Time = c.CreatedAt
			}
		}
		for _, r := range reviews {
			if r.CreatedAt.After(card.Time) {
				card.Time = r.CreatedAt
			}
		}
		return []OrderCard{card}
	}

	// index of the card an event at t belongs to
	bucket := func(t time.Time) int {
		idx := 0
		for i := 1; i < len(sorted); i++ {
			if !t.Before(sorted[i].CreatedAt) {
				idx = i
			}
		}
		return idx
	}

	cards := make([]OrderCard, len(sorted))
	for i := range sorted {
		cards[i] = OrderCard{
			Order:      &sorted[i],
			StaffCalls: []models.StaffCall{},
			Reviews:    []models.Review{},
			Time:       sorted[i].CreatedAt,
		}
	}
	for _, c := range calls {
		i := bucket(c.CreatedAt)
		cards[i].StaffCalls = append(cards[i].StaffCalls, c)
	}
	for _, r := range reviews {
		i := bucket(r.CreatedAt)
		cards[i].Reviews = append(cards[i].Reviews, r)
	}

	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Time.After(cards[j].Time)
	})
	return cards
}

// enrich attaches orders, calls and reviews to each session by sessionId.
func (s *HistoryService) enrich(ctx context.Context, restaurant string, sessions []models.TableSession) ([]SessionView, error) {
	views := make([]SessionView, 0, len(sessions))
	if len(sessions) == 0 {
		return views, nil
	}

	ids := make([]string, 0, len(sessions))
	for _, ts := range sessions {
		ids = append(ids, ts.SessionID)
	}

	var orders []models.Order
	if err := s.DB.WithContext(ctx).Preload("Products").
		Where("restaurant_id = ? AND session_id IN ?", restaurant, ids).
		Order("created_at ASC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("load session orders: %w", err)
	}
	var calls []models.StaffCall
	if err := s.DB.WithContext(ctx).
		Where("restaurant_id = ? AND session_id IN ?", restaurant, ids).
		Order("created_at ASC").
		Find(&calls).Error; err != nil {
		return nil, fmt.Errorf("load session staff calls: %w", err)
	}
	var reviews []models.Review
	if err := s.DB.WithContext(ctx).
		Where("restaurant_id = ? AND session_id IN ?", restaurant, ids).
		Order("created_at ASC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("load session reviews: %w", err)
	}

	ordersBy := make(map[string][]models.Order)
	for _, o := range orders {
		ordersBy[o.SessionID] = append(ordersBy[o.SessionID], o)
	}
	callsBy := make(map[string][]models.StaffCall)
	for _, c := range calls {
		callsBy[*c.SessionID] = append(callsBy[*c.SessionID], c)
	}
	reviewsBy := make(map[string][]models.Review)
	for _, r := range reviews {
		reviewsBy[*r.SessionID] = append(reviewsBy[*r.SessionID], r)
	}

	for _, ts := range sessions {
		v := SessionView{
			TableSession: ts,
			Orders:       nonNil(ordersBy[ts.SessionID]),
			StaffCalls:   nonNil(callsBy[ts.SessionID]),
			Reviews:      nonNil(reviewsBy[ts.SessionID]),
		}
		v.Cards = BuildCards(v.Orders, v.StaffCalls, v.Reviews)
		views = append(views, v)
	}
	return views, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (s *HistoryService) sessions(ctx context.Context, restaurant string, f HistoryFilter) ([]models.TableSession, error) {
	q := s.DB.WithContext(ctx).Where("restaurant_id = ?", restaurant)
	if f.Date != nil {
		start := time.Date(f.Date.Year(), f.Date.Month(), f.Date.Day(), 0, 0, 0, 0, f.Date.Location())
		q = q.Where("start_time >= ? AND start_time < ?", start, start.AddDate(0, 0, 1))
	}
	if f.Table != "" {
		q = q.Where("table_username = ?", f.Table)
	}
	var sessions []models.TableSession
	if err := q.Order("updated_at DESC").Find(&sessions).Error; err != nil {
		return nil, fmt.Errorf("load sessions: %w", err)
	}
	return DedupSessions(sessions), nil
}

// History groups deduplicated sessions by table name.
func (s *HistoryService) History(ctx context.Context, restaurant string, f HistoryFilter) ([]TableHistory, error) {
	sessions, err := s.sessions(ctx, restaurant, f)
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, restaurant, sessions)
	if err != nil {
		return nil, err
	}

	byTable := make(map[string][]SessionView)
	names := make([]string, 0)
	for _, v := range views {
		if _, ok := byTable[v.TableName]; !ok {
			names = append(names, v.TableName)
		}
		byTable[v.TableName] = append(byTable[v.TableName], v)
	}
	sort.Strings(names)

	out := make([]TableHistory, 0, len(names))
	for _, name := range names {
		out = append(out, TableHistory{TableName: name, Sessions: byTable[name]})
	}
	return out, nil
}

// Feed returns every order, the active request and kitchen buckets, active
// staff calls and the enriched sessions.
func (s *HistoryService) Feed(ctx context.Context, restaurant string) (*AdminFeed, error) {
	var orders []models.Order
	if err := s.DB.WithContext(ctx).Preload("Products").
		Where("restaurant_id = ?", restaurant).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}

	var calls []models.StaffCall
	if err := s.DB.WithContext(ctx).
		Where("restaurant_id = ? AND status = ?", restaurant, models.StaffCallActive).
		Order("created_at ASC").
		Find(&calls).Error; err != nil {
		return nil, fmt.Errorf("load staff calls: %w", err)
	}

	sessions, err := s.sessions(ctx, restaurant, HistoryFilter{})
	if err != nil {
		return nil, err
	}
	views, err := s.enrich(ctx, restaurant, sessions)
	if err != nil {
		return nil, err
	}

	requests, kitchen := PartitionActive(orders)
	return &AdminFeed{
		Orders:       nonNil(orders),
		OrderRequest: requests,
		OrderActive:  kitchen,
		StaffCalls:   nonNil(calls),
		Sessions:     views,
	}, nil
}
