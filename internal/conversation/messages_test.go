package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cvbot-backend/internal/templates"
)

func TestCatalogTextPremiumSection(t *testing.T) {
	free := []templates.Template{{Name: "Modern Professional", Description: "Clean"}}
	premium := []templates.Template{{Name: "Creative Modern", Description: "Colorful", IsPremium: true}}

	withPremium := catalogText(free, premium)
	assert.Contains(t, withPremium, "🆓 FREE TEMPLATES:")
	assert.Contains(t, withPremium, "💎 PREMIUM TEMPLATES:\n• Creative Modern")

	freeOnly := catalogText(free, nil)
	assert.Contains(t, freeOnly, "• Modern Professional")
	assert.NotContains(t, freeOnly, "PREMIUM TEMPLATES")
	assert.Contains(t, freeOnly, menuText)
}
