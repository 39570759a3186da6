package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/ariefcatur/go-storefront/internal/money"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/google/uuid"
)

var sampleCategories = []struct{ name, image string }{
	{"Men's Wear", "https://images.unsplash.com/photo-1618886614638-80e3c103d31a?crop=entropy&cs=srgb&fm=jpg&ixid=M3w3NTY2NzB8MHwxfHNlYXJjaHwxfHxtZW4lMjBmYXNoaW9ufGVufDB8fHx8MTc1OTgzOTI2M3ww&ixlib=rb-4.1.0&q=85"},
	{"Women's Wear", "https://images.unsplash.com/photo-1617922001439-4a2e6562f328?crop=entropy&cs=srgb&fm=jpg&ixid=M3w3NDQ2NDF8MHwxfHNlYXJjaHwxfHx3b21lbiUyMGZhc2hpb258ZW58MHx8fHwxNzU5ODcwOTg0fDA&ixlib=rb-4.1.0&q=85"},
	{"Children's Wear", "https://images.unsplash.com/photo-1622218286192-95f6a20083c7?crop=entropy&cs=srgb&fm=jpg&ixid=M3w3NTY2NzF8MHwxfHNlYXJjaHwxfHxraWRzJTIwY2xvdGhpbmd8ZW58MHx8fHwxNzU5OTE5MjI5fDA&ixlib=rb-4.1.0&q=85"},
	{"Underwear", "https://images.unsplash.com/photo-1568441556126-f36ae0900180?crop=entropy&cs=srgb&fm=jpg&ixid=M3w3NTY2Nzd8MHwxfHNlYXJjaHw0fHx1bmRlcndlYXJ8ZW58MHx8fHwxNzU5OTE5MjMzfDA&ixlib=rb-4.1.0&q=85"},
}

type sampleProduct struct {
	name, description, price, category, image string
	stock                                     int
}

var sampleProducts = []sampleProduct{
	{"Classic Cotton T-Shirt", "Premium quality cotton t-shirt in multiple colors", "29.99", "Men's Wear", "https://images.unsplash.com/photo-1562157873-818bc0726f68?crop=entropy&cs=srgb&fm=jpg&ixid=M3w3NDk1ODF8MHwxfHNlYXJjaHwzfHxjbG90aGluZ3xlbnwwfHx8fDE3NTk4NTQyMTN8MA&ixlib=rb-4.1.0&q=85", 100},
	{"Elegant Women's Dress", "Beautiful and comfortable dress for all occasions", "89.99", "Women's Wear", "https://images.unsplash.com/photo-1525507119028-ed4c629a60a3?crop=entropy&cs=srgb&fm=jpg&ixid=M3w3NDk1ODF8MHwxfHNlYXJjaHwxfHxjbG90aGluZ3xlbnwwfHx8fDE3NTk4NTQyMTN8MA&ixlib=rb-4.1.0&q=85", 75},
	{"Trendy Yellow Track Suit", "Comfortable and stylish track suit perfect for casual wear", "79.99", "Women's Wear", "https://images.unsplash.com/photo-1515886657613-9f3515b0c78f?crop=entropy&cs=srgb&fm=jpg&ixid=M3w3NDQ2NDJ8MHwxfHNlYXJjaHwxfHxmYXNoaW9ufGVufDB8fHx8MTc1OTkxOTI3MHww&ixlib=rb-4.1.0&q=85", 50},
	{"Kids Colorful Collection", "Vibrant and comfortable children's clothing collection", "39.99", "Children's Wear", "https://images.unsplash.com/photo-1622218286192-95f6a20083c7?crop=entropy&cs=srgb&fm=jpg&ixid=M3w3NTY2NzF8MHwxfHNlYXJjaHwxfHxraWRzJTIwY2xvdGhpbmd8ZW58MHx8fHwxNzU5OTE5MjI5fDA&ixlib=rb-4.1.0&q=85", 60},
	{"Professional Shirts Collection", "High-quality professional shirts for office and formal wear", "59.99", "Men's Wear", "https://images.unsplash.com/photo-1489987707025-afc232f7ea0f?crop=entropy&cs=srgb&fm=jpg&ixid=M3w3NDk1ODF8MHwxfHNlYXJjaHw0fHxjbG90aGluZ3xlbnwwfHx8fDE3NTk4NTQyMTN8MA&ixlib=rb-4.1.0&q=85", 80},
	{"Stylish Outerwear", "Trendy coats and jackets for all seasons", "149.99", "Women's Wear", "https://images.unsplash.com/photo-1571513800374-df1bbe650e56?crop=entropy&cs=srgb&fm=jpg&ixid=M3w3NDQ2NDJ8MHwxfHNlYXJjaHwzfHxmYXNoaW9ufGVufDB8fHx8MTc1OTkxOTI3MHww&ixlib=rb-4.1.0&q=85", 40},
	{"Slim Fit Denim Jeans", "Comfort stretch slim-fit denim with classic five-pocket styling.", "49.99", "Men's Wear", "https://images.unsplash.com/photo-1541099649105-f69ad21f3246?auto=format&fit=crop&w=800&q=85", 120},
	{"Casual Linen Shirt", "Breathable linen shirt perfect for warm weather and a relaxed look.", "39.99", "Men's Wear", "https://images.unsplash.com/photo-1520975911473-0f9690f8f3a9?auto=format&fit=crop&w=800&q=85", 80},
	{"Boho Floral Maxi Dress", "Flowy maxi dress with bohemian floral prints and adjustable straps.", "69.99", "Women's Wear", "https://images.unsplash.com/photo-1520975911478-3b0a0f6b7f8f?auto=format&fit=crop&w=800&q=85", 60},
	{"High Waisted Tailored Trousers", "Elegant high-waisted trousers with a tapered leg for a polished look.", "69.99", "Women's Wear", "https://images.unsplash.com/photo-1544716278-ca5e3f4abd8c?auto=format&fit=crop&w=800&q=85", 45},
	{"Kids Graphic Tee Pack", "Soft cotton tee pack featuring playful graphic prints for kids.", "29.99", "Children's Wear", "https://images.unsplash.com/photo-1541807084-5c52b6b35a2c?auto=format&fit=crop&w=800&q=85", 140},
	{"Comfy Cotton Pajama Set", "Lightweight cotton pajama set with elastic waist and soft finish.", "34.99", "Underwear", "https://images.unsplash.com/photo-1514996937319-344454492b37?auto=format&fit=crop&w=800&q=85", 200},
	{"Men's Classic Oxford Shirt", "A classic oxford shirt that pairs well with formal and casual outfits.", "44.99", "Men's Wear", "https://images.unsplash.com/photo-1541099649105-f69ad21f3246?auto=format&fit=crop&w=900&q=80", 90},
	{"Ribbed Knit Sweater", "Cozy ribbed sweater with a soft touch knit, perfect for layering.", "59.99", "Women's Wear", "https://images.unsplash.com/photo-1541099649105-f69ad21f3246?auto=format&fit=crop&w=1000&q=80", 70},
	{"Outdoor Performance Jacket", "Water-resistant lightweight jacket with breathable fabric and zip pockets.", "119.99", "Men's Wear", "https://images.unsplash.com/photo-1520975911468-1f0a7f4a2f2e?auto=format&fit=crop&w=900&q=80", 35},
	{"Pleated Midi Skirt", "Elegant pleated midi skirt with a flattering silhouette.", "54.99", "Women's Wear", "https://images.unsplash.com/photo-1520975911473-0f9690f8f3a9?auto=format&fit=crop&w=900&q=80", 50},
	{"Athletic Running Shorts", "Lightweight running shorts with moisture-wicking fabric and pockets.", "24.99", "Men's Wear", "https://images.unsplash.com/photo-1520975911478-3b0a0f6b7f8f?auto=format&fit=crop&w=900&q=80", 110},
	{"Soft Terry Hoodie", "Super soft terry hoodie with kangaroo pocket and relaxed fit.", "49.99", "Women's Wear", "https://images.unsplash.com/photo-1514996937319-344454492b37?auto=format&fit=crop&w=900&q=80", 95},
	{"Kids Denim Jacket", "Durable denim jacket for kids with button front and comfy lining.", "44.99", "Children's Wear", "https://images.unsplash.com/photo-1520975911468-1f0a7f4a2f2e?auto=format&fit=crop&w=900&q=80", 65},
	{"Classic Cotton Boxer Briefs (3-pack)", "Breathable cotton boxer briefs with supportive fit, 3-pack.", "24.99", "Underwear", "https://images.unsplash.com/photo-1562887003-7f9c6d9b0b1f?auto=format&fit=crop&w=800&q=85", 300},
	{"Everyday Sports Bra", "Light support sports bra with seamless construction and breathable fabric.", "29.99", "Underwear", "https://images.unsplash.com/photo-1551854838-0c6f0d3c7f36?auto=format&fit=crop&w=800&q=85", 160},
	{"Leather Belt with Silver Buckle", "Full-grain leather belt with a brushed silver buckle for everyday wear.", "34.99", "Men's Wear", "https://images.unsplash.com/photo-1542291026-7eec264c27ff?auto=format&fit=crop&w=800&q=85", 150},
	{"Satin Slip Camisole", "Luxurious satin camisole with delicate straps, perfect as a layering piece.", "27.99", "Women's Wear", "https://images.unsplash.com/photo-1541099649105-f69ad21f3246?auto=format&fit=crop&w=800&q=80", 85},
}

// Seed fills an empty category table and adds any sample product whose name
// is not in the catalog yet. It returns the number of products inserted.
func Seed(ctx context.Context, q postgres.DBTX) (int, error) {
	var n int
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if n == 0 {
		for _, c := range sampleCategories {
			if _, err := q.Exec(ctx,
				`INSERT INTO categories (id, name, image_url, created_at) VALUES ($1, $2, $3, $4) ON CONFLICT (name) DO NOTHING`,
				uuid.NewString(), c.name, c.image, time.Now().UTC()); err != nil {
				return 0, fmt.Errorf("insert category %q: %w", c.name, err)
			}
		}
	}

	repo := &Repo{DB: q}
	cats, err := repo.ListCategories(ctx)
	if err != nil {
		return 0, err
	}
	byName := make(map[string]string, len(cats))
	for _, c := range cats {
		byName[c.Name] = c.ID
	}

	inserted := 0
	for _, sp := range sampleProducts {
		catID, ok := byName[sp.category]
		if !ok {
			continue
		}
		ok, err := insertProduct(ctx, q, Product{
			ID:           uuid.NewString(),
			Name:         sp.name,
			Description:  sp.description,
			Price:        money.MustParse(sp.price),
			CategoryID:   catID,
			CategoryName: sp.category,
			ImageURL:     sp.image,
			Stock:        sp.stock,
			CreatedAt:    time.Now().UTC(),
		})
		if err != nil {
			return inserted, fmt.Errorf("insert product %q: %w", sp.name, err)
		}
		if ok {
			inserted++
		}
	}
	return inserted, nil
}
