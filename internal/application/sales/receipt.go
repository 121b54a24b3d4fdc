package sales

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/storeadmin/backend/internal/domain/sales"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const receiptWidth = 40

// ReceiptRenderer renders a sale as a plain-text receipt with locale-aware numbers
type ReceiptRenderer struct {
	storeName  string
	currency   string
	printer    *message.Printer
	decimalSep string
}

// NewReceiptRenderer creates a renderer printing numbers for tag
func NewReceiptRenderer(storeName, currency string, tag language.Tag) *ReceiptRenderer {
	printer := message.NewPrinter(tag)
	return &ReceiptRenderer{
		storeName:  storeName,
		currency:   currency,
		printer:    printer,
		decimalSep: decimalSeparator(printer),
	}
}

// decimalSeparator reads the locale's separator off a formatted 1.5
func decimalSeparator(p *message.Printer) string {
	runes := []rune(p.Sprintf("%v", number.Decimal(1.5, number.MinFractionDigits(1))))
	if len(runes) < 3 {
		return "."
	}
	return string(runes[1 : len(runes)-1])
}

// DefaultReceiptPrefix is the storage folder receipts are archived under
const DefaultReceiptPrefix = "receipts"

// ReceiptKey is the object storage key of a sale's archived receipt under DefaultReceiptPrefix
func ReceiptKey(s *sales.Sale) string {
	return receiptKey(DefaultReceiptPrefix, s)
}

func receiptKey(prefix string, s *sales.Sale) string {
	at := s.SoldAt.UTC()
	return fmt.Sprintf("%s/%04d/%02d/%s.txt", strings.Trim(prefix, "/"), at.Year(), int(at.Month()), s.Reference)
}

// Render returns the receipt text
func (r *ReceiptRenderer) Render(s *sales.Sale) string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth)

	b.WriteString(center(r.storeName))
	b.WriteString(r.row("Receipt", s.Reference))
	b.WriteString(r.row("Date", s.SoldAt.Format("2006-01-02 15:04")))
	b.WriteString(rule + "\n")

	for _, it := range s.Items {
		b.WriteString(it.ProductName + "\n")
		qty := fmt.Sprintf("  %s x %s", r.quantity(it.Quantity), r.money(it.UnitPrice))
		b.WriteString(r.row(qty, r.money(it.Total)))
	}
	b.WriteString(rule + "\n")

	b.WriteString(r.row("Subtotal", r.money(s.Subtotal)))
	if !s.Discount.IsZero() {
		b.WriteString(r.row("Discount", "-"+r.money(s.Discount)))
	}
	b.WriteString(r.row("Tax ("+r.quantity(s.TaxRate)+"%)", r.money(s.Tax)))
	if !s.Shipping.IsZero() {
		b.WriteString(r.row("Shipping", r.money(s.Shipping)))
	}
	b.WriteString(r.row("Total "+r.currency, r.money(s.GrandTotal)))
	b.WriteString(r.row("Paid ("+string(s.PaymentMethod)+")", r.money(s.PaidAmount)))
	b.WriteString(r.row("Change", r.money(s.ChangeAmount)))
	b.WriteString(rule + "\n")
	b.WriteString(center("Thank you"))
	return b.String()
}

func (r *ReceiptRenderer) money(d decimal.Decimal) string {
	return r.formatDecimal(d, sales.MoneyPlaces, sales.MoneyPlaces)
}

func (r *ReceiptRenderer) quantity(d decimal.Decimal) string {
	return r.formatDecimal(d, 0, 4)
}

// formatDecimal groups the integer part for the locale and keeps between
// minPlaces and maxPlaces fraction digits. Both parts are printed as int64
// so amounts past float64 precision stay exact.
func (r *ReceiptRenderer) formatDecimal(d decimal.Decimal, minPlaces, maxPlaces int32) string {
	d = d.Round(maxPlaces)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}
	whole := d.Truncate(0)
	frac := d.Sub(whole).Shift(maxPlaces).IntPart()
	places := maxPlaces
	for places > minPlaces && frac%10 == 0 {
		frac /= 10
		places--
	}

	out := sign + r.printer.Sprintf("%v", number.Decimal(whole.IntPart()))
	if places > 0 {
		out += r.decimalSep + r.printer.Sprintf("%v", number.Decimal(frac,
			number.MinIntegerDigits(int(places)),
			number.NoSeparator(),
		))
	}
	return out
}

// row left-aligns label and right-aligns value on one line
func (r *ReceiptRenderer) row(label, value string) string {
	pad := receiptWidth - len([]rune(label)) - len([]rune(value))
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + value + "\n"
}

func center(s string) string {
	pad := (receiptWidth - len([]rune(s))) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s + "\n"
}
