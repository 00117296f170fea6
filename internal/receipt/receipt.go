// Package receipt renders a donation as a print-formatted receipt.
package receipt

import (
	"fmt"
	"strings"

	"pantry-cli/internal/donations"
	"pantry-cli/internal/model"

	"github.com/charmbracelet/glamour"
)

const (
	title    = "Donation Receipt"
	subtitle = "Hancock County Food Pantry"
	footer   = "Thank you for your generous donation!"
)

// Markdown builds the receipt body. The same content backs the terminal
// rendering and the web receipt page.
func Markdown(d model.Donation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n", title, subtitle)
	fmt.Fprintf(&b, "**Date & Time:** %s  \n", d.DateTime)
	fmt.Fprintf(&b, "**Donor:** %s\n\n", d.DonorName)

	if strings.TrimSpace(d.Temperature) != "" {
		b.WriteString("| Category | Weight (lbs) | Temp (F) |\n|---|---|---|\n")
		for i, c := range model.Categories() {
			temp := ""
			if i == 0 {
				temp = d.Temperature
			}
			fmt.Fprintf(&b, "| %s | %s | %s |\n", c, donations.FormatWeight(d.Weight(c)), temp)
		}
	} else {
		b.WriteString("| Category | Weight (lbs) |\n|---|---|\n")
		for _, c := range model.Categories() {
			fmt.Fprintf(&b, "| %s | %s |\n", c, donations.FormatWeight(d.Weight(c)))
		}
	}

	fmt.Fprintf(&b, "\n%s\n", footer)
	return b.String()
}

// Render produces the terminal form of the receipt. Receipts are printed
// media: the notty (monochrome) style keeps them clean when piped to a
// printer spool, plain=true skips glamour entirely.
func Render(d model.Donation, width int, plain bool) string {
	md := Markdown(d)
	if plain {
		return md
	}
	if width <= 0 {
		width = 60
	}
	rr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("notty"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := rr.Render(md)
	if err != nil {
		return md
	}
	return out
}
