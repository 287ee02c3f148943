package catalog

import (
	"time"

	"github.com/electrostore/storefront/entities"
)

// seedProducts returns the demo catalog. Prices are whole Colombian pesos.
func seedProducts() []entities.Product {
	return []entities.Product{
		{
			ID:               "sm001",
			Name:             "iPhone 15 Pro",
			Description:      "The iPhone 15 Pro features the A17 Pro chip, a 48MP main camera with 3x telephoto, a 6.1-inch Super Retina XDR display and a titanium build.",
			ShortDescription: "iPhone 15 Pro with A17 Pro chip and 48MP camera",
			Category:         "smartphones",
			Brand:            "Apple",
			Price:            4_299_000,
			Image:            "assets/images/products/smartphones/iphone_15_pro.svg",
			Stock:            15,
			Status:           entities.ProductAvailable,
			Rating:           4.8,
			ReviewCount:      234,
			CreatedAt:        time.Date(2024, 9, 12, 0, 0, 0, 0, time.UTC),
			Featured:         true,
			Tags:             []string{"new", "flagship", "premium"},
		},
		{
			ID:               "sm002",
			Name:             "Samsung Galaxy S24 Ultra",
			Description:      "The Galaxy S24 Ultra redefines innovation with its built-in S Pen, 200MP camera and 6.8-inch Dynamic AMOLED 2X display.",
			ShortDescription: "Galaxy S24 Ultra with S Pen and 200MP camera",
			Category:         "smartphones",
			Brand:            "Samsung",
			Price:            5_199_000,
			OriginalPrice:    5_699_000,
			Discount:         9,
			Image:            "assets/images/products/smartphones/galaxy_s24_ultra.svg",
			Stock:            8,
			Status:           entities.ProductAvailable,
			Rating:           4.7,
			ReviewCount:      189,
			CreatedAt:        time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
			Featured:         true,
			Tags:             []string{"s-pen", "professional", "camera"},
		},
		{
			ID:               "sm003",
			Name:             "Xiaomi 14 Pro",
			Description:      "The Xiaomi 14 Pro combines power and elegance with its Snapdragon 8 Gen 3 processor and Leica camera system.",
			ShortDescription: "Xiaomi 14 Pro with Leica cameras",
			Category:         "smartphones",
			Brand:            "Xiaomi",
			Price:            3_499_000,
			Image:            "assets/images/products/smartphones/xiaomi_14_pro.svg",
			Stock:            12,
			Status:           entities.ProductAvailable,
			Rating:           4.6,
			ReviewCount:      156,
			CreatedAt:        time.Date(2024, 2, 25, 0, 0, 0, 0, time.UTC),
			Featured:         false,
			Tags:             []string{"leica", "photography", "premium"},
		},
		{
			ID:               "lp001",
			Name:             "MacBook Pro 16\" M3 Pro",
			Description:      "The 16-inch MacBook Pro with the M3 Pro chip delivers exceptional performance for creative professionals.",
			ShortDescription: "MacBook Pro 16\" with M3 Pro chip for professionals",
			Category:         "laptops",
			Brand:            "Apple",
			Price:            9_899_000,
			Image:            "assets/images/products/laptops/macbook_pro_16_m3.svg",
			Stock:            5,
			Status:           entities.ProductAvailable,
			Rating:           4.9,
			ReviewCount:      78,
			CreatedAt:        time.Date(2023, 11, 7, 0, 0, 0, 0, time.UTC),
			Featured:         true,
			Tags:             []string{"professional", "video", "design"},
		},
		{
			ID:               "au001",
			Name:             "Sony WH-1000XM5",
			Description:      "The Sony WH-1000XM5 headphones offer best-in-class noise cancellation.",
			ShortDescription: "Sony headphones with leading noise cancellation",
			Category:         "audio",
			Brand:            "Sony",
			Price:            1_299_000,
			Image:            "assets/images/products/audio/sony_wh1000xm5.svg",
			Stock:            20,
			Status:           entities.ProductAvailable,
			Rating:           4.8,
			ReviewCount:      445,
			CreatedAt:        time.Date(2022, 5, 12, 0, 0, 0, 0, time.UTC),
			Featured:         true,
			Tags:             []string{"noise cancelling", "premium", "travel"},
		},
		{
			ID:               "gm001",
			Name:             "PlayStation 5",
			Description:      "The PlayStation 5 redefines gaming with 4K graphics and ultra-fast SSD loading.",
			ShortDescription: "PlayStation 5 with 4K graphics and ultra-fast SSD",
			Category:         "gaming",
			Brand:            "PlayStation",
			Price:            2_499_000,
			Image:            "assets/images/products/gaming/playstation_5.svg",
			Stock:            3,
			Status:           entities.ProductAvailable,
			Rating:           4.9,
			ReviewCount:      1247,
			CreatedAt:        time.Date(2020, 11, 12, 0, 0, 0, 0, time.UTC),
			Featured:         true,
			Tags:             []string{"console", "4k", "ssd"},
		},
	}
}
