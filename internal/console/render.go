package console

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/xenking/evdealer-wizard/internal/domain/catalog"
	"github.com/xenking/evdealer-wizard/internal/domain/customer"
	"github.com/xenking/evdealer-wizard/internal/domain/order"
	"github.com/xenking/evdealer-wizard/internal/domain/promotion"
	"github.com/xenking/evdealer-wizard/internal/wizard"
)

var (
	accent  = lipgloss.Color("#0EA5E9")
	dim     = lipgloss.Color("#6B7280")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(0, 2)

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(accent)
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(accent)
	doneStyle    = lipgloss.NewStyle().Foreground(success)
	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	errorStyle   = lipgloss.NewStyle().Foreground(danger).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(warning)
	successStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(dim).Width(12)
	totalStyle   = lipgloss.NewStyle().Bold(true)
)

// FormatVND formats an amount as whole dong with dot thousand separators.
func FormatVND(v decimal.Decimal) string {
	s := v.Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteString(" ₫")
	return b.String()
}

// RenderProgress renders the step bar with the current step highlighted.
func RenderProgress(current wizard.Step) string {
	parts := make([]string, 0, len(wizard.Steps))
	for _, s := range wizard.Steps {
		label := fmt.Sprintf("%d %s", int(s), s)
		switch {
		case s == current:
			parts = append(parts, activeStyle.Render("["+label+"]"))
		case s < current:
			parts = append(parts, doneStyle.Render(label))
		default:
			parts = append(parts, dimStyle.Render(label))
		}
	}
	return strings.Join(parts, dimStyle.Render(" > "))
}

// RenderCustomer renders the customer draft.
func RenderCustomer(d customer.Draft, customerID int64) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Customer") + "\n")
	field := func(label, value string) {
		if value == "" {
			value = dimStyle.Render("(empty)")
		}
		b.WriteString(labelStyle.Render(label) + value + "\n")
	}
	field("Name", d.Name)
	field("Phone", d.Phone)
	field("Email", d.Email)
	if customerID != 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("existing customer #%d", customerID)) + "\n")
	}
	return boxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

// RenderCustomers renders a numbered customer list.
func RenderCustomers(list []customer.Customer) string {
	if len(list) == 0 {
		return dimStyle.Render("No customers.")
	}
	var b strings.Builder
	for i, c := range list {
		fmt.Fprintf(&b, "%3d  %-28s %-14s %s\n", i+1, c.Name, c.Phone, dimStyle.Render(c.Email))
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderCatalog renders the vehicles with their colors, prices and stock.
func RenderCatalog(vehicles []catalog.Vehicle) string {
	if len(vehicles) == 0 {
		return dimStyle.Render("The catalog is empty.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Vehicles") + "\n")
	for i, v := range vehicles {
		fmt.Fprintf(&b, "%3d  %s\n", i+1, v.DisplayName())
		for _, color := range v.Colors() {
			price, err := catalog.ResolveUnitPrice(v, color)
			priceText := dimStyle.Render("no price")
			if err == nil {
				priceText = FormatVND(price)
			}
			line := fmt.Sprintf("       %-16s %s", color, priceText)
			if stock, ok := v.Stock(color); ok {
				line += dimStyle.Render(fmt.Sprintf("  stock %d", stock))
			}
			b.WriteString(line + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderCart renders the cart lines and the totals.
func RenderCart(cart []wizard.LineItem, totals promotion.Totals) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Cart") + "\n")
	if len(cart) == 0 {
		b.WriteString(dimStyle.Render("empty") + "\n")
	}
	for i, item := range cart {
		name := item.Vehicle.ModelName
		if item.Vehicle.VariantName != "" {
			name += " " + item.Vehicle.VariantName
		}
		fmt.Fprintf(&b, "%3d  %-22s %-12s x%-3d %s\n", i+1, name, item.Color, item.Quantity, FormatVND(item.Total()))
	}
	b.WriteString(RenderTotals(totals))
	return boxStyle.Render(b.String())
}

// RenderTotals renders subtotal, discount and total.
func RenderTotals(t promotion.Totals) string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Subtotal") + FormatVND(t.Subtotal) + "\n")
	if t.Discount.IsPositive() {
		b.WriteString(labelStyle.Render("Discount") + "-" + FormatVND(t.Discount) + "\n")
	}
	b.WriteString(labelStyle.Render("Total") + totalStyle.Render(FormatVND(t.Total)))
	return b.String()
}

// RenderPromotions renders a numbered promotion list, marking the selected
// one.
func RenderPromotions(list []promotion.Promotion, selected *promotion.Promotion) string {
	if len(list) == 0 {
		return dimStyle.Render("No promotions available for this dealer.")
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Promotions") + "\n")
	for i, p := range list {
		mark := " "
		if selected != nil && selected.ID == p.ID {
			mark = successStyle.Render("*")
		}
		value := FormatVND(p.Value)
		if p.Type == promotion.TypePercentage {
			value = p.Value.String() + "%"
		}
		fmt.Fprintf(&b, "%s%3d  %-24s %s\n", mark, i+1, p.Name, value)
		if p.Description != "" {
			b.WriteString("       " + dimStyle.Render(p.Description) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// RenderSummary renders the authoritative order summary.
func RenderSummary(s *order.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Order #%d", s.OrderID)) + "  " + dimStyle.Render(string(s.Status)) + "\n")
	b.WriteString(labelStyle.Render("Customer") + s.Customer.Name + "  " + dimStyle.Render(s.Customer.Phone) + "\n")
	if s.Dealer.Name != "" {
		b.WriteString(labelStyle.Render("Dealer") + s.Dealer.Name + "  " + dimStyle.Render(s.Dealer.Address) + "\n")
	}
	for _, item := range s.Items {
		line := item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		fmt.Fprintf(&b, "  %-22s %-12s x%-3d %s\n",
			strings.TrimSpace(item.ModelName+" "+item.VariantName), item.ColorName, item.Quantity, FormatVND(line))
	}
	if s.PromotionName != "" {
		b.WriteString(labelStyle.Render("Promotion") + s.PromotionName + "\n")
	}
	if s.PaymentMethod != "" {
		b.WriteString(labelStyle.Render("Payment") + paymentLabel(s.PaymentMethod) + "\n")
	}
	b.WriteString(RenderTotals(promotion.Totals{Subtotal: s.Subtotal, Discount: s.Discount, Total: s.Total}))
	return boxStyle.Render(b.String())
}

func paymentLabel(m order.PaymentMethod) string {
	switch m {
	case order.PaymentFull:
		return "Full payment"
	case order.PaymentInstallment:
		return "Installment"
	default:
		return string(m)
	}
}

// RenderError renders a message for a failed action.
func RenderError(msg string) string {
	return errorStyle.Render("! ") + msg
}

// RenderNotice renders a non-fatal notice.
func RenderNotice(msg string) string {
	return warnStyle.Render("~ ") + msg
}

// RenderSuccess renders a confirmation message.
func RenderSuccess(msg string) string {
	return successStyle.Render(msg)
}
