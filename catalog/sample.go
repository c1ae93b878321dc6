package catalog

import "github.com/qyinm/savorytui/types"

const unsplash = "https://images.unsplash.com/"

// SampleMenu returns the dishes shown when the menu cannot be fetched.
// Each call returns a fresh slice.
func SampleMenu() []types.MenuItem {
	return []types.MenuItem{
		types.NewMenuItem("1", "Grilled Salmon",
			"Fresh Atlantic salmon with lemon butter sauce, served with seasonal vegetables",
			24.99, dishImage("photo-1519708227418-c8fd9a32b7a2"), types.MainCourse),
		types.NewMenuItem("2", "Filet Mignon",
			"8oz premium beef tenderloin with red wine reduction and garlic mashed potatoes",
			32.99, dishImage("photo-1546964124-0cce460f38ef"), types.MainCourse),
		types.NewMenuItem("3", "Mushroom Risotto",
			"Creamy arborio rice with wild mushrooms and parmesan cheese",
			18.99, dishImage("photo-1476124369491-e7addf5db371"), types.MainCourse),
		types.NewMenuItem("4", "Truffle Pasta",
			"Fresh pasta with black truffle cream sauce and parmesan",
			22.99, dishImage("photo-1563379926898-05f4575a45d8"), types.MainCourse),
		types.NewMenuItem("5", "Seafood Platter",
			"Assorted fresh seafood with lemon butter and herbs",
			35.99, dishImage("photo-1563379926898-05f4575a45d8"), types.MainCourse),
		types.NewMenuItem("6", "Vegetarian Delight",
			"Seasonal vegetables with quinoa and tahini sauce",
			16.99, dishImage("photo-1512621776951-a57141f2eefd"), types.MainCourse),
		types.NewMenuItem("7", "Chocolate Lava Cake",
			"Warm chocolate cake with molten center and vanilla ice cream",
			8.99, dishImage("photo-1563729784474-d77dbb933a9e"), types.Desserts),
		types.NewMenuItem("8", "Caprese Salad",
			"Fresh mozzarella, tomatoes, and basil with balsamic glaze",
			12.99, dishImage("photo-1551782450-17144efb9c50"), types.Appetizers),
		types.NewMenuItem("9", "Beef Burger",
			"Premium beef patty with special sauce and crispy fries",
			14.99, dishImage("photo-1568901346375-23c9450c58cd"), types.MainCourse),
		types.NewMenuItem("10", "Margherita Pizza",
			"Classic pizza with fresh mozzarella and basil",
			16.99, dishImage("photo-1604068549290-dea0e4a305ca"), types.MainCourse),
	}
}

func dishImage(id string) string {
	return unsplash + id + "?ixlib=rb-1.2.1&auto=format&fit=crop&w=1350&q=80"
}

var restaurantPhotos = []string{
	"photo-1517248135467-4c7edcad34c4",
	"photo-1555396273-367ea4eb4db5",
	"photo-1414235077428-338989a2e8c0",
	"photo-1514933651103-005eec06c04b",
}

// FallbackGallery returns the built-in restaurant photos followed by the
// image of every item that has one.
func FallbackGallery(items []types.MenuItem) []types.GalleryImage {
	out := make([]types.GalleryImage, 0, len(restaurantPhotos)+len(items))
	for _, id := range restaurantPhotos {
		u := unsplash + id + "?ixlib=rb-1.2.1&auto=format&fit=crop&w=500&q=80"
		out = append(out, types.NewGalleryImage("", u, "Savory Delights", true))
	}
	for _, item := range items {
		if item.Image() == "" {
			continue
		}
		out = append(out, types.NewGalleryImage("", item.Image(), item.Name(), true))
	}
	return out
}
