package models

// RankingEntry — строка рейтинга мощности. Порядок вывода — производная
// сортировка по Power по убыванию, в документе не хранится.
type RankingEntry struct {
	ID     string  `json:"id"`
	Car    string  `json:"car"`
	Owner  string  `json:"owner"`
	Power  float64 `json:"power"`
	Torque float64 `json:"torque"`
	Media  []Media `json:"media,omitempty"`
	Date   string  `json:"date,omitempty"`
	Dyno   string  `json:"dyno,omitempty"`
}

// Media — фото или видео замера.
type Media struct {
	Type string `json:"type"` // photo|video
	URL  string `json:"url"`
}

// swagger:model RankingEntryRequest
type RankingEntryRequest struct {
	Car    string  `json:"car" example:"Toyota Supra A80"`
	Owner  string  `json:"owner" example:"Иван"`
	Power  float64 `json:"power" example:"612"`
	Torque float64 `json:"torque" example:"780"`
	Media  []Media `json:"media,omitempty"`
	Date   string  `json:"date,omitempty"`
	Dyno   string  `json:"dyno,omitempty"`
}
