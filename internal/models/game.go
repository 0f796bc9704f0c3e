package models

// Game is the catalog entry a checkout is opened against. It is fetched once
// per checkout and never mutated by this service.
type Game struct {
	ID             uint      `json:"id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Platform       string    `json:"platform"`
	MinPlayers     int       `json:"min_players"`
	MaxPlayers     int       `json:"max_players"`
	AgeRating      string    `json:"age_rating"`
	PointsPerHour  int       `json:"points_per_hour"`
	IsReservable   bool      `json:"is_reservable"`
	ReservationFee float64   `json:"reservation_fee"`
	Description    string    `json:"description"`
	ImageURL       string    `json:"image_url"`
	Packages       []Package `json:"packages"`
}

// PackageByID returns the game's package with the given id, or nil.
func (g *Game) PackageByID(id uint) *Package {
	for i := range g.Packages {
		if g.Packages[i].ID == id {
			return &g.Packages[i]
		}
	}
	return nil
}

// Package is a purchasable (duration, price, points) unit tied to a game.
// CanPurchase is computed by the backend and turns false once the per-user
// purchase cap for the package is reached.
type Package struct {
	ID               uint     `json:"id"`
	GameID           uint     `json:"game_id"`
	Name             string   `json:"name"`
	DurationMinutes  int      `json:"duration_minutes"`
	Price            float64  `json:"price"`
	OriginalPrice    *float64 `json:"original_price,omitempty"`
	PointsEarned     int      `json:"points_earned"`
	BonusMultiplier  float64  `json:"bonus_multiplier"`
	IsPromotional    bool     `json:"is_promotional"`
	PromotionalLabel string   `json:"promotional_label,omitempty"`
	CanPurchase      bool     `json:"can_purchase"`
}
