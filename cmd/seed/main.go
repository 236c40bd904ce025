package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"newsdesk/internal/client"
	"newsdesk/internal/model"
)

var articles = []client.NewsDraft{
	{
		Title:        "City council approves riverfront cleanup drive",
		Content:      "The municipal corporation sanctioned a two-month cleanup of the riverfront, with volunteer groups joining sanitation crews every weekend starting next month.",
		BaseLanguage: model.LangEnglish,
		Coverage:     model.CoverageLocal,
		Category:     "civic",
		Published:    true,
	},
	{
		Title:        "मानसून सत्र में तीन नए विधेयक पेश",
		Content:      "संसद के मानसून सत्र के पहले सप्ताह में तीन नए विधेयक पेश किए गए, जिन पर अगले सप्ताह चर्चा होगी।",
		BaseLanguage: model.LangHindi,
		Coverage:     model.CoverageNational,
		Category:     "politics",
		Published:    true,
	},
	{
		Title:        "जिल्ह्यात नवीन औद्योगिक वसाहतीला मंजुरी",
		Content:      "राज्य सरकारने जिल्ह्यात नवीन औद्योगिक वसाहत उभारण्यास मंजुरी दिली असून पुढील वर्षी काम सुरू होणार आहे.",
		BaseLanguage: model.LangMarathi,
		Coverage:     model.CoverageLocal,
		Category:     "business",
		Published:    true,
	},
	{
		Title:        "Global summit closes with joint climate pledge",
		Content:      "Delegates from forty countries signed a joint pledge to cut emissions, closing a week of negotiations that nearly collapsed over financing terms.",
		BaseLanguage: model.LangEnglish,
		Coverage:     model.CoverageInternational,
		Category:     "world",
		Published:    true,
	},
	{
		Title:        "Monsoon arrives early along the coast",
		Content:      "The weather department confirmed the monsoon reached the coastline four days ahead of schedule, bringing heavy showers to coastal districts.",
		BaseLanguage: model.LangEnglish,
		Coverage:     model.CoverageNational,
		Category:     "weather",
		Published:    true,
	},
	{
		Title:        "Draft: stadium renovation tender under review",
		Content:      "Officials are reviewing bids for the stadium renovation. Details to be confirmed before publication.",
		BaseLanguage: model.LangEnglish,
		Coverage:     model.CoverageLocal,
		Category:     "sports",
		Published:    false,
	},
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Newsdesk server URL")
	email := flag.String("email", "reporter@example.com", "Reporter email")
	password := flag.String("password", "changeme123", "Reporter password")
	flag.Parse()

	log.Printf("Seeding database at %s...", *baseURL)

	helper := client.NewTestHelper(*baseURL)
	c, err := helper.RegisterAndLogin("reporter", *email, *password)
	if err != nil {
		log.Fatalf("login: %v", err)
	}
	log.Printf("✓ Logged in as %s", *email)

	posted := 0
	for _, draft := range articles {
		article, err := c.CreateNews(draft)
		if err != nil {
			log.Printf("✗ Failed to post article: %v", err)
			continue
		}
		posted++
		log.Printf("✓ Posted article #%d: %s", article.ID, draft.Title)

		// Small delay to spread out created_at times
		time.Sleep(1100 * time.Millisecond)
	}

	fmt.Println("\n=== Seed Complete ===")
	fmt.Printf("Articles: %d\n", posted)
	fmt.Println("\nView at:", *baseURL+"/api/news")
}
