package ui

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/bubbles/list"
	"github.com/qyinm/savorytui/types"
	"github.com/stretchr/testify/assert"
)

func TestDelegateRendersEachOfferOfTheSameDish(t *testing.T) {
	offers := []types.SpecialOffer{
		types.NewSpecialOffer("3", "7", "Chocolate Lava Cake", "", "", 11.99, 9.59, "Weekend deal", true),
		types.NewSpecialOffer("4", "7", "Chocolate Lava Cake", "", "", 14.50, 9.99, "Lunch combo", true),
	}
	items := []list.Item{offers[0].AsMenuItem(), offers[1].AsMenuItem()}
	d := MenuItemDelegate{offers: offers}
	l := list.New(items, d, 80, 20)

	var first, second bytes.Buffer
	d.Render(&first, l, 0, items[0])
	d.Render(&second, l, 1, items[1])

	assert.Contains(t, first.String(), "M11.99")
	assert.Contains(t, first.String(), "Weekend deal")
	assert.NotContains(t, first.String(), "M14.50")

	assert.Contains(t, second.String(), "M14.50")
	assert.Contains(t, second.String(), "Lunch combo")
	assert.NotContains(t, second.String(), "M11.99")
}

func TestDelegateWithoutOffers(t *testing.T) {
	item := types.NewMenuItem("7", "Chocolate Lava Cake", "Warm", 8.99, "", types.Desserts)
	d := MenuItemDelegate{}
	l := list.New([]list.Item{item}, d, 80, 20)

	var buf bytes.Buffer
	d.Render(&buf, l, 0, item)
	assert.Contains(t, buf.String(), "M8.99")
	assert.Contains(t, buf.String(), "Desserts")
}
