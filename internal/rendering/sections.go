package rendering

import (
	"github.com/jonathan/venture-profile/internal/format"
)

const (
	footerDisclaimer  = "This business profile was generated automatically. For the most up-to-date information, please contact the company directly."
	noCharacteristics = "No specific business characteristics highlighted"
	bullet            = "•"
)

func (l *layout) drawHeader(_ LayoutContext) LayoutContext {
	l.rect(0, 0, PageWidth, 40, colorBrand)
	l.text(20, 25, "BUSINESS PROFILE", Bold, sizeBanner, colorInverse)
	l.text(PageWidth-80, 32, "Generated on "+format.ShortDate(l.in.now), Regular, sizeTagline, colorInverse)
	return LayoutContext{Y: 60}
}

func (l *layout) drawTitle(lc LayoutContext) LayoutContext {
	p := l.in.profile
	y := lc.Y
	l.text(leftColumn, y, titleName(p), Bold, sizeName, colorText)
	y += 15

	if p.MissionStatement != "" {
		y = l.wrapped(leftColumn, y, contentWidth, `"`+p.MissionStatement+`"`, Italic, sizeTagline, colorText)
		y += 10
	}
	return LayoutContext{Y: y}
}

func (l *layout) drawOverview(lc LayoutContext) LayoutContext {
	p := l.in.profile
	y := lc.Y
	l.rect(panelX, y-5, panelWidth, panelHeights[SectionOverview], colorPanel)
	l.heading(leftColumn, y+10, "COMPANY OVERVIEW")
	y += 25

	leftY := y
	l.field(leftColumn, leftY, 25, "Industry:", format.OrNotSpecified(p.Sector))
	leftY += 12
	l.field(leftColumn, leftY, 25, "Founded:", format.Date(p.FoundedAt))
	leftY += 12
	l.field(leftColumn, leftY, 25, "Business Age:", format.BusinessAge(p.FoundedAt, l.in.now))
	leftY += 12
	l.field(leftColumn, leftY, 25, "Location:", format.OrNotSpecified(p.Location))

	rightY := y
	l.field(rightColumn, rightY, 25, "Stage:", format.OrNotSpecified(p.Stage))
	rightY += 12
	l.field(rightColumn, rightY, 25, "Team Size:", format.OrNotSpecified(p.EmployeesRange))
	rightY += 12
	l.field(rightColumn, rightY, 35, "Business Model:", format.OrNotSpecified(p.EffectiveBusinessModel()))
	rightY += 12
	l.field(rightColumn, rightY, 35, "Registration #:", format.OrNotSpecified(p.RegistrationNumber))

	return LayoutContext{Y: max(leftY, rightY) + 20}
}

func (l *layout) drawDescription(lc LayoutContext) LayoutContext {
	y := lc.Y
	l.heading(leftColumn, y, "COMPANY DESCRIPTION")
	y += 15
	y = l.wrapped(leftColumn, y, contentWidth, l.in.profile.Description, Regular, sizeBody, colorText)
	return LayoutContext{Y: y + 15}
}

func (l *layout) drawFounder(lc LayoutContext) LayoutContext {
	p := l.in.profile
	y := lc.Y
	l.rect(panelX, y-5, panelWidth, panelHeights[SectionFounder], colorPanel)
	l.heading(leftColumn, y+10, "FOUNDER INFORMATION")
	y += 25

	l.field(leftColumn, y, 25, "Name:", p.FounderName)
	if p.FounderEducation != "" {
		l.field(rightColumn, y, 30, "Education:", p.FounderEducation)
	}
	return LayoutContext{Y: y + 35}
}

func (l *layout) drawFinancial(lc LayoutContext) LayoutContext {
	p := l.in.profile
	y := lc.Y
	l.heading(leftColumn, y, "FINANCIAL OVERVIEW")
	y += 15
	l.rect(panelX, y-5, panelWidth, panelHeights[SectionFinancial], colorPanel)

	leftY := y + 10
	l.field(leftColumn, leftY, 35, "Funding Status:", format.OrNotSpecified(p.FundingStatus))
	leftY += 12
	l.field(leftColumn, leftY, 35, "Amount Raised:", format.Currency(p.AmountRaised))
	leftY += 12
	l.field(leftColumn, leftY, 35, "Funding Needed:", format.Currency(p.FundingNeeded))

	rightY := y + 10
	l.field(rightColumn, rightY, 50, "Business Bank Account:", format.YesNo(p.HasBusinessBankAccount))
	rightY += 12
	l.field(rightColumn, rightY, 45, "Financial Records:", format.OrNotSpecified(p.KeepsFinancialRecords))

	return LayoutContext{Y: max(leftY, rightY) + 20}
}

func (l *layout) drawCharacteristics(lc LayoutContext) LayoutContext {
	y := lc.Y
	l.heading(leftColumn, y, "BUSINESS CHARACTERISTICS")
	y += 15

	traits := l.in.profile.Characteristics()
	if len(traits) == 0 {
		l.text(leftColumn, y, noCharacteristics, Italic, sizeBody, colorText)
		y += 10
	}
	for _, trait := range traits {
		l.text(25, y, bullet+" "+trait, Regular, sizeBody, colorText)
		y += 10
	}
	return LayoutContext{Y: y + 10}
}

func (l *layout) drawInnovation(lc LayoutContext) LayoutContext {
	y := lc.Y
	l.heading(leftColumn, y, "INNOVATION")
	y += 15
	y = l.wrapped(leftColumn, y, contentWidth, l.in.profile.InnovationExplanation, Regular, sizeBody, colorText)
	return LayoutContext{Y: y + 15}
}

func (l *layout) drawContact(lc LayoutContext) LayoutContext {
	p := l.in.profile
	y := lc.Y
	l.heading(leftColumn, y, "CONTACT INFORMATION")
	y += 15
	l.rect(panelX, y-5, panelWidth, panelHeights[SectionContact], colorPanel)

	leftY := y + 10
	if p.Email != "" {
		l.field(leftColumn, leftY, 20, "Email:", p.Email)
		leftY += 12
	}
	if p.Phone != "" {
		l.field(leftColumn, leftY, 20, "Phone:", p.Phone)
		leftY += 12
	}

	rightY := y + 10
	if p.Website != "" {
		l.field(rightColumn, rightY, 25, "Website:", p.Website)
		rightY += 12
	}
	if p.Address != "" {
		// The address wraps below its label without moving the cursor.
		l.text(rightColumn, rightY, "Address:", Bold, sizeBody, colorText)
		l.wrapped(rightColumn+25, rightY, 80, p.Address, Regular, sizeBody, colorText)
	}

	return LayoutContext{Y: max(leftY, rightY) + 20}
}

func (l *layout) drawFundingRounds(lc LayoutContext) LayoutContext {
	y := lc.Y
	l.heading(leftColumn, y, "FUNDING ROUNDS")
	y += 20

	l.rect(20, y-5, PageWidth-40, 15, colorBrand)
	for _, col := range []struct {
		x     float64
		title string
	}{
		{25, "Round Type"},
		{80, "Amount"},
		{130, "Date"},
		{160, "Status"},
	} {
		l.text(col.x, y+5, col.title, Bold, sizeBody, colorInverse)
	}
	y += 20

	rounds := l.in.rounds
	if len(rounds) > MaxFundingRounds {
		rounds = rounds[:MaxFundingRounds]
	}
	for i, r := range rounds {
		if i%2 == 0 {
			l.rect(20, y-8, PageWidth-40, 12, colorPanel)
		}
		l.text(25, y, format.OrNotAvailable(r.RoundType), Regular, sizeBody, colorText)
		l.text(80, y, format.Currency(r.Amount), Regular, sizeBody, colorText)
		l.text(130, y, format.Date(r.Date), Regular, sizeBody, colorText)
		l.text(160, y, format.OrNotAvailable(r.Status), Regular, sizeBody, colorText)
		y += 12
	}
	return LayoutContext{Y: y}
}

// drawFooter draws the closing banner at the bottom of the last page. It is
// placed at a fixed position and does not move the cursor.
func (l *layout) drawFooter(lc LayoutContext) LayoutContext {
	footerY := PageHeight - 20
	l.rect(0, footerY-10, PageWidth, 30, colorBrand)
	l.text(20, footerY, footerDisclaimer, Regular, sizeFooter, colorInverse)
	l.text(20, footerY+8, "Generated on "+format.DateTime(l.in.now), Regular, sizeFooter, colorInverse)
	return lc
}
