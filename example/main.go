package main

import (
	"fmt"

	"github.com/vsinha/repair-configurator/pkg/configurator"
)

func main() {
	rows := []configurator.PriceRow{
		configurator.NewRow("Écran", "Origine", "Apple", "iPhone", "iPhone 12", "89"),
		configurator.NewRow("Écran", "Compatible", "Apple", "iPhone", "iPhone 12", "0"),
		configurator.NewRow("Écran", "Origine", "Apple", "iPhone", "iPhone 13 Mini", "119"),
		configurator.NewRow("Écran", "Compatible", "Apple", "iPhone", "iPhone 13 Mini", "79"),
		configurator.NewRow("Batterie", "Origine", "Apple", "iPhone", "iPhone 12", "59"),
		configurator.NewRow("Écran", "Origine", "Samsung", "Galaxy S", "Galaxy S21", "139"),
		configurator.NewRow("Connecteur", "Compatible", "Samsung", "Galaxy A", "Galaxy A52", "39"),
	}

	session, err := configurator.New(rows, configurator.DefaultSettings())
	if err != nil {
		fmt.Printf("❌ Failed to start session: %v\n", err)
		return
	}

	fmt.Println("📱 Screen repair for an iPhone 13 Mini")
	choose(session, configurator.Repair, "Écran")
	choose(session, configurator.Brand, "Apple")
	choose(session, configurator.Series, "iPhone")
	choose(session, configurator.Model, "iPhone 13 Mini")
	choose(session, configurator.Quality, "Compatible")
	printQuote(session)

	fmt.Println()
	fmt.Println("🔁 Switching to the iPhone 12")
	choose(session, configurator.Model, "iPhone 12")
	showStep(session, configurator.Quality)
	choose(session, configurator.Quality, "Origine")
	choose(session, configurator.Model, "iPhone 12")
	printQuote(session)

	fmt.Println()
	fmt.Println("🔁 Switching to a connector repair")
	choose(session, configurator.Repair, "Connecteur")
	showStep(session, configurator.Brand)
}

func choose(session *configurator.Session, field configurator.Field, value string) {
	result, err := session.ApplySelection(field, value)
	if err != nil {
		fmt.Printf("  ❌ %s = %s: %v\n", field, value, err)
		return
	}
	fmt.Printf("  ✅ %s = %s\n", field, value)
	for _, cleared := range result.Cleared {
		fmt.Printf("     ↺ %s cleared\n", cleared)
	}
}

func showStep(session *configurator.Session, field configurator.Field) {
	fmt.Printf("  📋 %s:", field)
	for _, option := range session.Options(field) {
		if option.Available {
			fmt.Printf(" %s", option.Value)
		}
	}
	fmt.Println()
}

func printQuote(session *configurator.Session) {
	quote, ok := session.LastQuote()
	if !ok {
		fmt.Println("  💬 Selection incomplete")
		return
	}
	view := session.QuoteView(quote)
	fmt.Printf("  💶 %s, %s (%s): %s, %s\n", view.Device, view.Repair, view.Quality, view.Display, view.TimeEstimate)
}
