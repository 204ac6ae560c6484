package conversation

import (
	"fmt"
	"strings"

	"cvbot-backend/internal/documents"
	"cvbot-backend/internal/payments"
	"cvbot-backend/internal/templates"
)

// Contact holds the operator details quoted in help and payment texts.
type Contact struct {
	SupportEmail  string
	SupportPhone  string
	PaymentMethod string
	MerchantCode  string
	Currency      string
}

// DefaultContact matches the configuration defaults.
var DefaultContact = Contact{
	SupportEmail:  "support@cvmaker.com",
	SupportPhone:  "+263 XXX XXX",
	PaymentMethod: "EcoCash",
	MerchantCode:  "123456",
	Currency:      "USD",
}

// GenericReply is sent when a turn cannot be completed.
const GenericReply = "Sorry, something went wrong. Let's start over. Type 'menu' to see options."

const (
	menuText = "🎯 MAIN MENU:\n\n" +
		"1. 📄 Create New CV\n" +
		"2. 📋 View Templates\n" +
		"3. 📁 My CVs\n" +
		"4. 💎 Premium Upgrade\n" +
		"5. 🆘 Help & Support\n\n" +
		"Type a number (1-5) or the action name:"

	msgGenerationFailed = "Sorry, there was an error generating your CV. Please try again."
	msgInvalidMenu      = "Please select a valid option (1-5) or type the action name:\n\n"

	msgAskName    = "Great! Let's create your professional CV! 📄✨\n\nFirst, what's your full name?"
	msgAskEmail   = "What's your email address?"
	msgAskPhone   = "Perfect! 📧\n\nWhat's your phone number?"
	msgAskAddress = "Got it! 📱\n\nWhat's your address? (City, Country is fine)"
	msgAskSummary = "Great! 🏠\n\nNow, write a brief professional summary about yourself (2-3 sentences):"

	msgAskExperience = "Excellent! 💼\n\nNow let's add your work experience. For each job, include:\n" +
		"- Job Title at Company Name\n" +
		"- Duration (e.g., Jan 2020 - Present)\n" +
		"- Key responsibilities/achievements\n\n" +
		"Send each job as a separate message, or type 'done' when finished."
	msgNeedExperience = "Please add at least one work experience entry, or type 'skip' to continue without experience."

	educationBody = "Now let's add your education. For each qualification, include:\n" +
		"- Degree/Certificate Name\n" +
		"- Institution Name\n" +
		"- Year/Duration\n" +
		"- Any honors or relevant details\n\n" +
		"Send each qualification as a separate message, or type 'done' when finished."
	msgNeedEducation = "Please add at least one education entry, or type 'skip' to continue without education."

	skillsBody = "Finally, let's add your skills. Examples:\n" +
		"- Technical skills (Python, Excel, Photoshop)\n" +
		"- Soft skills (Communication, Leadership)\n" +
		"- Languages (English, French)\n\n" +
		"Send all your skills in one message, separated by commas."

	msgAskPhoto = "Awesome! 📸\n\nWould you like to add a profile photo to your CV?\n\n" +
		"1. Send a photo now\n" +
		"2. Skip photo\n\n" +
		"Type '1' and send photo, or '2' to skip."
	msgPhotoReprompt = "Please send a photo or type '2' to skip."
	msgPhotoReceived = "Great photo! 📸✅\n\n"

	msgNoTemplates = "No templates are available right now. Please try again later.\n\n"

	msgUpgradeOffer = "💎 Upgrade to Premium!\n\n🎯 PREMIUM PACKAGES:\n\n" +
		"1. Premium Templates - %s %s\n" +
		"   • Exclusive professional designs\n" +
		"   • Advanced layouts\n\n" +
		"2. Premium + Editable - %s %s\n" +
		"   • Everything in Premium\n" +
		"   • Editable Word (.docx) format\n\n" +
		"3. Complete Package - %s %s\n" +
		"   • Everything above\n" +
		"   • Cover letter templates\n" +
		"   • Priority support\n\n" +
		"Type the package number to upgrade!"
	msgAlreadyPremium = "🌟 You're already a Premium user!\n\nPremium benefits:\n" +
		"✅ Access to all premium templates\n" +
		"✅ Editable Word format\n" +
		"✅ Cover letter templates\n" +
		"✅ Priority support\n\n"
	msgInvalidPackage    = "Please select a valid package (1-3)."
	msgPackageNotANumber = "Please enter a number to select a package."

	msgPaymentCancelled = "Payment cancelled. No charges applied.\n\n"
	msgPaymentFailed    = "Payment verification failed. Please try again or contact support."
	msgPaymentSuccess   = "🎉 Payment successful!\n\n✅ You're now a Premium user!\n🎯 You now have access to:\n" +
		"• All premium CV templates\n" +
		"• Editable Word formats\n" +
		"• Cover letter templates\n" +
		"• Priority support\n\n" +
		"Create a new CV to try premium templates!\n\n"

	msgUpsell = "💎 Want premium templates and editable formats?\nType 'premium' to see upgrade options!\n\n"
)

var colorLabels = []struct{ emoji, name, blurb string }{
	{"💙", "Blue", "Professional and trustworthy"},
	{"💚", "Green", "Fresh and natural"},
	{"❤️", "Red", "Bold and energetic"},
	{"💜", "Purple", "Creative and innovative"},
	{"🧡", "Orange", "Warm and friendly"},
	{"🖤", "Navy", "Classic and sophisticated"},
}

func welcomeText(count int) string {
	if count > 0 {
		return fmt.Sprintf("Welcome back! 👋\n\nI see you've created %d CV(s) with me before.\n\n", count) + menuText
	}
	return "Welcome to CV Maker Bot! 🎯\n\n" +
		"I'll help you create a professional CV in minutes, delivered right here on WhatsApp!\n\n" + menuText
}

func askEmailText(name string) string {
	if name == "" {
		return msgAskEmail
	}
	return fmt.Sprintf("Nice to meet you, %s! 👋\n\nWhat's your email address?", name)
}

func entryAddedText(kind, next string, total int) string {
	return fmt.Sprintf("Added %s entry! ✅\n\nAdd another %s or type 'done' to continue.\n\nTotal entries: %d", kind, next, total)
}

func askEducationText(skipped bool) string {
	if skipped {
		return "No problem! 🎓\n\n" + educationBody
	}
	return "Perfect! 🎓\n\n" + educationBody
}

func askSkillsText(skipped bool) string {
	if skipped {
		return "No problem! 🛠️\n\n" + skillsBody
	}
	return "Great! 🛠️\n\n" + skillsBody
}

func templateListText(items []templates.Template) string {
	var b strings.Builder
	b.WriteString("Choose your CV template:\n\n")
	for i, t := range items {
		icon := "🆓"
		if t.IsPremium {
			icon = "💎"
		}
		fmt.Fprintf(&b, "%d. %s %s\n   %s\n\n", i+1, icon, t.Name, t.Description)
	}
	fmt.Fprintf(&b, "Type the number (1-%d) to select:", len(items))
	return b.String()
}

func invalidTemplateText(n int) string {
	return fmt.Sprintf("Please select a valid template number (1-%d).", n)
}

func templateNotANumberText(n int) string {
	return fmt.Sprintf("Please enter a number to select a template (1-%d).", n)
}

func catalogText(free, premium []templates.Template) string {
	var b strings.Builder
	b.WriteString("📋 Available CV Templates:\n\n")
	b.WriteString("🆓 FREE TEMPLATES:\n")
	for _, t := range free {
		fmt.Fprintf(&b, "• %s\n  %s\n\n", t.Name, t.Description)
	}
	if len(premium) > 0 {
		b.WriteString("💎 PREMIUM TEMPLATES:\n")
		for _, t := range premium {
			fmt.Fprintf(&b, "• %s\n  %s\n\n", t.Name, t.Description)
		}
	}
	b.WriteString(menuText)
	return b.String()
}

func historyText(docs []documents.Document, total int) string {
	if total == 0 {
		return "You haven't created any CVs yet! 📄\n\nType '1' to create your first CV!\n\n" + menuText
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📁 Your CVs (%d total):\n\n", total)
	for i, d := range docs {
		icon := "🆓"
		if d.IsPremium {
			icon = "💎"
		}
		fmt.Fprintf(&b, "%d. %s %s\n   Template: %s\n   Created: %s\n\n",
			i+1, icon, d.FullName, d.TemplateName, d.CreatedAt.Format("2006-01-02"))
	}
	if rest := total - len(docs); rest > 0 {
		fmt.Fprintf(&b, "... and %d more\n\n", rest)
	}
	b.WriteString(menuText)
	return b.String()
}

func colorPromptText(templateName string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🎨 Choose a color scheme for %s:\n\n", templateName)
	for i, c := range colorLabels {
		fmt.Fprintf(&b, "%d. %s %s - %s\n", i+1, c.emoji, c.name, c.blurb)
	}
	b.WriteString("\nReply with the number of your preferred color scheme:")
	return b.String()
}

func invalidColorText(templateName string) string {
	return "Please select a valid color option (1-6):\n\n" + colorPromptText(templateName)
}

func colorName(scheme string) string {
	for i, key := range colorKeys {
		if key == scheme {
			return colorLabels[i].name
		}
	}
	return scheme
}

// successText confirms a produced document. colorLabel is empty when no color was chosen.
func successText(doc documents.Document, colorLabel string, premium bool) string {
	var b strings.Builder
	b.WriteString("🎉 Your CV has been created successfully!\n\n")
	fmt.Fprintf(&b, "Template: %s\n", doc.TemplateName)
	if colorLabel != "" {
		fmt.Fprintf(&b, "Color: %s\n", colorLabel)
	}
	fmt.Fprintf(&b, "Created: %s\n\n", doc.CreatedAt.Format("2006-01-02 15:04"))
	if doc.URL != "" {
		fmt.Fprintf(&b, "📎 Download: %s\n\n", doc.URL)
	}
	if !premium {
		b.WriteString(msgUpsell)
	}
	b.WriteString(menuText)
	return b.String()
}

func (c Contact) upgradeOfferText() string {
	args := make([]any, 0, 2*len(payments.Packages))
	for _, p := range payments.Packages {
		args = append(args, payments.FormatAmount(p.AmountCents), c.Currency)
	}
	return fmt.Sprintf(msgUpgradeOffer, args...)
}

func (c Contact) paymentInstructionsText(pkg payments.Package) string {
	amount := payments.FormatAmount(pkg.AmountCents)
	return fmt.Sprintf("💳 Payment Required\n\nPackage: %s\nAmount: %s %s\n\n"+
		"💰 %s Payment Instructions:\n"+
		"1. Dial *151#\n"+
		"2. Select 'Send Money'\n"+
		"3. Enter Merchant Code: %s\n"+
		"4. Enter Amount: %s\n"+
		"5. Send payment reference here\n\n"+
		"Or type 'cancel' to cancel this upgrade.",
		pkg.Name, amount, c.Currency, c.PaymentMethod, c.MerchantCode, amount)
}

func (c Contact) helpText() string {
	return "🆘 Help & Support\n\n" +
		"HOW IT WORKS:\n" +
		"1. Choose 'Create New CV'\n" +
		"2. Follow the guided questions\n" +
		"3. Select a template\n" +
		"4. Receive your professional CV!\n\n" +
		"FEATURES:\n" +
		"• Instant PDF delivery\n" +
		"• Professional templates\n" +
		"• Profile photo support\n" +
		"• Premium upgrades available\n\n" +
		"SUPPORT:\nHaving issues? Contact us:\n" +
		"📧 " + c.SupportEmail + "\n" +
		"📱 WhatsApp: " + c.SupportPhone + "\n\n" +
		menuText
}
