package domain

// Motorcycle snapshot embedded in a deal.
type Motorcycle struct {
	ID            string
	Brand         string
	Model         string
	Year          int
	Color         string
	VIN           string
	StockLocation string
	IsNewUnit     bool
}
