package telegram

import "github.com/yourusername/shopee-finance-bot/internal/domain/entity"

// claimSession bitta operator uchun /claim sessiyasi holati
type claimSession struct {
	// OrderID tanlangan kutilayotgan buyurtma
	OrderID     string
	ProductName string
	OptionName  string

	// Katalog menyusi (sahifalangan)
	Entries []entity.CostEntry
	Page    int

	// Tanlangan katalog qatori (-1 = hali tanlanmagan)
	Selected int

	// Remember: mappingni xotira jadvaliga yozish
	Remember bool

	// AI taklif qilgan label (bo'sh = taklif yo'q)
	Suggested string
}

// clampPage sahifani katalog chegarasida ushlab turish
func (s *claimSession) clampPage() {
	totalPages := (len(s.Entries) + claimPageSize - 1) / claimPageSize
	if s.Page >= totalPages {
		s.Page = totalPages - 1
	}
	if s.Page < 0 {
		s.Page = 0
	}
}

// claimPageSize har bir sahifadagi katalog tugmalari soni
const claimPageSize = 8
