package templates

import "time"

// Template is a catalog entry. Key names the renderer variant that draws it.
type Template struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Key         string    `json:"templateKey"`
	IsPremium   bool      `json:"isPremium"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Seed is the catalog installed by the seed migration and by the in-memory repo.
var Seed = []Template{
	{ID: 1, Name: "Modern Professional", Description: "Clean and modern design suitable for all industries", Key: "template1", IsActive: true},
	{ID: 2, Name: "Executive Classic", Description: "Traditional professional layout for senior positions", Key: "template2", IsActive: true},
	{ID: 3, Name: "Creative Modern", Description: "Colorful and modern design for creative professionals", Key: "template3", IsPremium: true, IsActive: true},
	{ID: 4, Name: "Minimalist", Description: "Clean and simple design focusing on content", Key: "template4", IsActive: true},
	{ID: 5, Name: "Technical Professional", Description: "Designed for IT and technical professionals", Key: "template5", IsPremium: true, IsActive: true},
	{ID: 6, Name: "Sales Professional", Description: "Designed for sales and business development professionals", Key: "template6", IsPremium: true, IsActive: true},
	{ID: 7, Name: "Academic", Description: "Designed for researchers, professors, and academic professionals", Key: "template7", IsActive: true},
	{ID: 8, Name: "Healthcare Professional", Description: "Designed for doctors, nurses, and healthcare professionals", Key: "template8", IsPremium: true, IsActive: true},
	{ID: 9, Name: "Finance Professional", Description: "Designed for banking, finance, and investment professionals", Key: "template9", IsPremium: true, IsActive: true},
	{ID: 10, Name: "Creative Arts", Description: "Designed for artists, designers, and creative professionals", Key: "template10", IsPremium: true, IsActive: true},
}
