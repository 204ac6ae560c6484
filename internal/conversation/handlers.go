package conversation

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"cvbot-backend/internal/documents"
	"cvbot-backend/internal/payments"
	"cvbot-backend/internal/templates"
	"cvbot-backend/resume/render"
)

const recentLimit = 5

var colorKeys = render.ColorChoices

func (m *Machine) welcome(ctx context.Context, t Turn) (outcome, error) {
	count, err := m.Documents.Count(ctx, t.User.ID)
	if err != nil {
		return outcome{}, err
	}
	return moveTo(StateMenu, Empty{}, welcomeText(count)), nil
}

func (m *Machine) menu(ctx context.Context, t Turn) (outcome, error) {
	switch command(t.Text) {
	case "1", "create", "new cv":
		return moveTo(StateCollectName, NewDraft(), msgAskName), nil
	case "2", "templates", "view templates":
		free, premium, err := m.Catalog.All(ctx)
		if err != nil {
			return outcome{}, err
		}
		return stay(t, catalogText(free, premium)), nil
	case "3", "my cvs", "history", "my documents":
		docs, total, err := m.Documents.Recent(ctx, t.User.ID, recentLimit)
		if err != nil {
			return outcome{}, err
		}
		return stay(t, historyText(docs, total)), nil
	case "4", "premium", "upgrade":
		if t.User.IsPremium {
			return stay(t, msgAlreadyPremium+menuText), nil
		}
		return moveTo(StatePremiumUpgrade, Empty{}, m.Contact.upgradeOfferText()), nil
	case "5", "help", "support":
		return stay(t, m.Contact.helpText()), nil
	default:
		return stay(t, msgInvalidMenu+menuText), nil
	}
}

// Contact fields are stored trimmed and as typed, blank included.

func (m *Machine) collectName(t Turn) outcome {
	text := strings.TrimSpace(t.Text)
	d := t.Record.Draft()
	d.FullName = text
	return moveTo(StateCollectEmail, d, askEmailText(text))
}

func (m *Machine) collectEmail(t Turn) outcome {
	text := strings.TrimSpace(t.Text)
	d := t.Record.Draft()
	d.Email = text
	return moveTo(StateCollectPhone, d, msgAskPhone)
}

func (m *Machine) collectPhone(t Turn) outcome {
	text := strings.TrimSpace(t.Text)
	d := t.Record.Draft()
	d.Phone = text
	return moveTo(StateCollectAddress, d, msgAskAddress)
}

func (m *Machine) collectAddress(t Turn) outcome {
	text := strings.TrimSpace(t.Text)
	d := t.Record.Draft()
	d.Address = text
	return moveTo(StateCollectSummary, d, msgAskSummary)
}

func (m *Machine) collectSummary(t Turn) outcome {
	text := strings.TrimSpace(t.Text)
	d := t.Record.Draft()
	d.Summary = text
	return moveTo(StateCollectExperience, d, msgAskExperience)
}

func (m *Machine) collectExperience(t Turn) outcome {
	d := t.Record.Draft()
	switch command(t.Text) {
	case "done":
		if len(d.Experience) == 0 {
			return stay(t, msgNeedExperience)
		}
		return moveTo(StateCollectEducation, d, askEducationText(false))
	case "skip":
		return moveTo(StateCollectEducation, d, askEducationText(true))
	}
	text, ok := answer(t)
	if !ok {
		return stay(t, msgAskExperience)
	}
	d.Experience = append(d.Experience, text)
	return moveTo(StateCollectExperience, d, entryAddedText("experience", "experience", len(d.Experience)))
}

func (m *Machine) collectEducation(t Turn) outcome {
	d := t.Record.Draft()
	switch command(t.Text) {
	case "done":
		if len(d.Education) == 0 {
			return stay(t, msgNeedEducation)
		}
		return moveTo(StateCollectSkills, d, askSkillsText(false))
	case "skip":
		return moveTo(StateCollectSkills, d, askSkillsText(true))
	}
	text, ok := answer(t)
	if !ok {
		return stay(t, askEducationText(false))
	}
	d.Education = append(d.Education, text)
	return moveTo(StateCollectEducation, d, entryAddedText("education", "qualification", len(d.Education)))
}

func (m *Machine) collectSkills(t Turn) outcome {
	d := t.Record.Draft()
	if command(t.Text) == "skip" {
		d.Skills = []string{}
		return moveTo(StateProfilePhoto, d, msgAskPhoto)
	}
	text, ok := answer(t)
	if !ok {
		return stay(t, askSkillsText(false))
	}
	d.Skills = splitSkills(text)
	return moveTo(StateProfilePhoto, d, msgAskPhoto)
}

func (m *Machine) profilePhoto(ctx context.Context, t Turn) (outcome, error) {
	d := t.Record.Draft()
	prefix := ""
	switch {
	case strings.TrimSpace(t.MediaRef) != "":
		ref := strings.TrimSpace(t.MediaRef)
		d.ProfilePhoto = &ref
		prefix = msgPhotoReceived
	case command(t.Text) == "2" || command(t.Text) == "skip":
		d.ProfilePhoto = nil
	default:
		return stay(t, msgPhotoReprompt), nil
	}

	list, err := m.Catalog.Available(ctx, t.User.IsPremium)
	if err != nil {
		return outcome{}, err
	}
	if len(list) == 0 {
		return stay(t, msgNoTemplates+menuText), nil
	}
	return moveTo(StateSelectTemplate, d, prefix+templateListText(list)), nil
}

func (m *Machine) selectTemplate(ctx context.Context, t Turn) (outcome, error) {
	list, err := m.Catalog.Available(ctx, t.User.IsPremium)
	if err != nil {
		return outcome{}, err
	}
	if len(list) == 0 {
		return stay(t, msgNoTemplates+menuText), nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(t.Text))
	if err != nil {
		return stay(t, templateNotANumberText(len(list))), nil
	}
	if n < 1 || n > len(list) {
		return stay(t, invalidTemplateText(len(list))), nil
	}

	tpl := list[n-1]
	d := t.Record.Draft()
	id := tpl.ID
	d.TemplateID = &id
	if m.Catalog.OffersColor(tpl) {
		return moveTo(StateSelectColor, d, colorPromptText(tpl.Name)), nil
	}
	d.ColorScheme = render.DefaultColor
	return m.produce(ctx, t, d, tpl, "", msgGenerationFailed)
}

func (m *Machine) selectColor(ctx context.Context, t Turn) (outcome, error) {
	d := t.Record.Draft()
	tpl, ok, err := m.pendingTemplate(ctx, d, t.User.IsPremium)
	if err != nil {
		return outcome{}, err
	}
	if !ok {
		// The pending selection is gone; start the choice over.
		d.TemplateID = nil
		d.ColorScheme = ""
		list, err := m.Catalog.Available(ctx, t.User.IsPremium)
		if err != nil {
			return outcome{}, err
		}
		if len(list) == 0 {
			return stay(t, msgNoTemplates+menuText), nil
		}
		return moveTo(StateSelectTemplate, d, templateListText(list)), nil
	}

	n, err := strconv.Atoi(strings.TrimSpace(t.Text))
	if err != nil || n < 1 || n > len(colorKeys) {
		return stay(t, invalidColorText(tpl.Name)), nil
	}
	d.ColorScheme = colorKeys[n-1]
	return m.produce(ctx, t, d, tpl, colorName(d.ColorScheme), msgGenerationFailed+"\n\n"+colorPromptText(tpl.Name))
}

// pendingTemplate resolves the draft's selection against what the user may use now. A
// template that was deactivated or is no longer within the user's entitlement is not found.
func (m *Machine) pendingTemplate(ctx context.Context, d Draft, premium bool) (templates.Template, bool, error) {
	if d.TemplateID == nil {
		return templates.Template{}, false, nil
	}
	list, err := m.Catalog.Available(ctx, premium)
	if err != nil {
		return templates.Template{}, false, err
	}
	for _, tpl := range list {
		if tpl.ID == *d.TemplateID && tpl.IsActive {
			return tpl, true, nil
		}
	}
	return templates.Template{}, false, nil
}

// produce renders the draft. On a generation failure the turn keeps its state and draft.
func (m *Machine) produce(ctx context.Context, t Turn, d Draft, tpl templates.Template, colorLabel, failReply string) (outcome, error) {
	doc, err := m.Documents.Generate(ctx, documents.Request{
		User:        t.User,
		Template:    tpl,
		Profile:     d.Profile(),
		PhotoRef:    d.photoRef(),
		ColorScheme: d.ColorScheme,
	})
	if errors.Is(err, documents.ErrGenerationFailed) {
		return stay(t, failReply), nil
	}
	if err != nil {
		return outcome{}, err
	}
	return moveTo(StateMenu, Empty{}, successText(doc, colorLabel, t.User.IsPremium)), nil
}

func (m *Machine) premiumUpgrade(ctx context.Context, t Turn) (outcome, error) {
	if command(t.Text) == "cancel" {
		return moveTo(StateMenu, Empty{}, menuText), nil
	}
	tx, pkg, err := m.Payments.Start(ctx, t.User.ID, t.Text)
	if errors.Is(err, payments.ErrInvalidInput) {
		if _, convErr := strconv.Atoi(strings.TrimSpace(t.Text)); convErr != nil {
			return stay(t, msgPackageNotANumber), nil
		}
		return stay(t, msgInvalidPackage), nil
	}
	if err != nil {
		return outcome{}, err
	}
	return moveTo(StatePayment, PendingPayment{TransactionID: tx.ID}, m.Contact.paymentInstructionsText(pkg)), nil
}

func (m *Machine) payment(ctx context.Context, t Turn) (outcome, error) {
	if command(t.Text) == "cancel" {
		return moveTo(StateMenu, Empty{}, msgPaymentCancelled+menuText), nil
	}
	pending, _ := t.Record.Pending()
	_, err := m.Payments.Confirm(ctx, t.User.ID, pending.TransactionID, t.Text)
	if errors.Is(err, payments.ErrVerificationFailed) {
		return stay(t, msgPaymentFailed), nil
	}
	if err != nil {
		return outcome{}, err
	}
	return moveTo(StateMenu, Empty{}, msgPaymentSuccess+menuText), nil
}

func command(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

func answer(t Turn) (string, bool) {
	text := strings.TrimSpace(t.Text)
	return text, text != ""
}

func splitSkills(text string) []string {
	parts := strings.Split(text, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}
