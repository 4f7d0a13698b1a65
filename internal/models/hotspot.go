package models

// Hotspot — кликабельный прямоугольник поверх баннера.
// Координаты и размеры в процентах от баннера; сохраняется один раз
// по окончании перетаскивания, а не на каждый кадр.
type Hotspot struct {
	ID   string  `json:"id"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	W    float64 `json:"w"`
	H    float64 `json:"h"`
	Link string  `json:"link,omitempty"`
}
