package fakers

import (
	"math/rand"
	"strings"

	"github.com/Rakhulsr/go-perfumery/app/models"
	"github.com/go-faker/faker/v4"
	"github.com/shopspring/decimal"
)

var (
	categories = []string{models.CategoryMen, models.CategoryWomen, models.CategoryUnisex}
	sizeSets   = []models.SizeList{{"30ml"}, {"50ml", "100ml"}, {"30ml", "50ml", "100ml"}}
	notes      = []string{"bergamot", "lemon", "pink pepper", "rose", "jasmine", "iris", "lavender", "vetiver", "oud", "amber", "musk", "sandalwood", "vanilla", "tonka"}
)

func pickNotes(n int) string {
	picked := make([]string, 0, n)
	for _, i := range rand.Perm(len(notes))[:n] {
		picked = append(picked, notes[i])
	}
	return strings.Join(picked, ", ")
}

func capitalize(word string) string {
	if word == "" {
		return word
	}
	return strings.ToUpper(word[:1]) + word[1:]
}

func PerfumeFaker() *models.Perfume {
	name := capitalize(faker.Word()) + " " + capitalize(faker.Word())
	qty := rand.Intn(60)

	return &models.Perfume{
		Name:         name,
		Description:  faker.Sentence(),
		Price:        decimal.New(int64(rand.Intn(20000)+1500), -2),
		Quantity:     qty,
		Available:    qty > 0,
		Category:     categories[rand.Intn(len(categories))],
		Sizes:        sizeSets[rand.Intn(len(sizeSets))],
		TopNotes:     pickNotes(2),
		HeartNotes:   pickNotes(2),
		BaseNotes:    pickNotes(2),
		IsBestSeller: rand.Intn(4) == 0,
	}
}
