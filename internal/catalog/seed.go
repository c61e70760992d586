package catalog

import "github.com/shopspring/decimal"

// DefaultProducts is the starter catalog of the mobile shop.
func DefaultProducts() []Product {
	return []Product{
		{
			ID:       1,
			Name:     "iPhone 14 Pro",
			Price:    decimal.NewFromInt(999),
			Stock:    10,
			Brand:    "Apple",
			Category: CategoryPhone,
			Specs: map[string]string{
				"display":   "6.1-inch Super Retina XDR",
				"processor": "A16 Bionic",
				"camera":    "48MP + 12MP + 12MP",
				"storage":   "128GB",
				"color":     "Deep Purple",
			},
		},
		{
			ID:       2,
			Name:     "Samsung Galaxy S23",
			Price:    decimal.NewFromInt(899),
			Stock:    15,
			Brand:    "Samsung",
			Category: CategoryPhone,
			Specs: map[string]string{
				"display":   "6.1-inch Dynamic AMOLED 2X",
				"processor": "Snapdragon 8 Gen 2",
				"camera":    "50MP + 12MP + 10MP",
				"storage":   "256GB",
				"color":     "Phantom Black",
			},
		},
		{
			ID:       3,
			Name:     "Google Pixel 7",
			Price:    decimal.NewFromInt(799),
			Stock:    8,
			Brand:    "Google",
			Category: CategoryPhone,
			Specs: map[string]string{
				"display":   "6.3-inch OLED",
				"processor": "Google Tensor G2",
				"camera":    "50MP + 12MP",
				"storage":   "128GB",
				"color":     "Snow",
			},
		},
		{
			ID:       4,
			Name:     "OnePlus 11",
			Price:    decimal.NewFromInt(849),
			Stock:    12,
			Brand:    "OnePlus",
			Category: CategoryPhone,
			Specs: map[string]string{
				"display":   "6.7-inch AMOLED",
				"processor": "Snapdragon 8 Gen 2",
				"camera":    "50MP + 48MP + 32MP",
				"storage":   "256GB",
				"color":     "Eternal Green",
			},
		},
		{
			ID:       5,
			Name:     "Xiaomi 13 Pro",
			Price:    decimal.NewFromInt(799),
			Stock:    10,
			Brand:    "Xiaomi",
			Category: CategoryPhone,
			Specs: map[string]string{
				"display":   "6.73-inch AMOLED",
				"processor": "Snapdragon 8 Gen 2",
				"camera":    "50MP + 50MP + 50MP",
				"storage":   "256GB",
				"color":     "Ceramic White",
			},
		},
		{
			ID:       6,
			Name:     "Nothing Phone (1)",
			Price:    decimal.NewFromInt(499),
			Stock:    15,
			Brand:    "Nothing",
			Category: CategoryPhone,
			Specs: map[string]string{
				"display":   "6.55-inch OLED",
				"processor": "Snapdragon 778G+",
				"camera":    "50MP + 50MP",
				"storage":   "128GB",
				"color":     "Black",
			},
		},
		{
			ID:       7,
			Name:     `iPad Pro 12.9"`,
			Price:    decimal.NewFromInt(1099),
			Stock:    7,
			Brand:    "Apple",
			Category: CategoryTablet,
			Specs: map[string]string{
				"display":   "12.9-inch Liquid Retina XDR",
				"processor": "M2 chip",
				"camera":    "12MP + 10MP",
				"storage":   "256GB",
				"color":     "Space Gray",
			},
		},
		{
			ID:       8,
			Name:     "Samsung Galaxy Tab S8",
			Price:    decimal.NewFromInt(699),
			Stock:    9,
			Brand:    "Samsung",
			Category: CategoryTablet,
			Specs: map[string]string{
				"display":   "11-inch TFT LCD",
				"processor": "Snapdragon 8 Gen 1",
				"camera":    "13MP + 6MP",
				"storage":   "128GB",
				"color":     "Graphite",
			},
		},
		{
			ID:       9,
			Name:     "Lenovo Tab P12 Pro",
			Price:    decimal.NewFromInt(699),
			Stock:    5,
			Brand:    "Lenovo",
			Category: CategoryTablet,
			Specs: map[string]string{
				"display":   "12.6-inch AMOLED",
				"processor": "Snapdragon 870",
				"camera":    "13MP + 5MP",
				"storage":   "256GB",
				"color":     "Storm Grey",
			},
		},
		{
			ID:       10,
			Name:     "AirPods Pro",
			Price:    decimal.NewFromInt(249),
			Stock:    20,
			Brand:    "Apple",
			Category: CategoryAccessories,
			Specs: map[string]string{
				"type":        "Wireless Earbuds",
				"features":    "Active Noise Cancellation, Spatial Audio",
				"batteryLife": "Up to 6 hours",
				"color":       "White",
			},
		},
		{
			ID:       11,
			Name:     "Samsung Galaxy Watch 5",
			Price:    decimal.NewFromInt(279),
			Stock:    12,
			Brand:    "Samsung",
			Category: CategoryAccessories,
			Specs: map[string]string{
				"display":     "1.4-inch Super AMOLED",
				"batteryLife": "Up to 50 hours",
				"sensors":     "Heart rate, ECG, Body composition",
				"color":       "Silver",
			},
		},
		{
			ID:       12,
			Name:     "Phone Case (iPhone)",
			Price:    decimal.NewFromInt(29),
			Stock:    50,
			Brand:    "Spigen",
			Category: CategoryAccessories,
			Specs: map[string]string{
				"material":       "TPU + Polycarbonate",
				"compatibleWith": "iPhone 14 Pro",
				"features":       "Drop protection, wireless charging compatible",
				"color":          "Matte Black",
			},
		},
		{
			ID:       13,
			Name:     "Phone Case (Samsung)",
			Price:    decimal.NewFromInt(29),
			Stock:    45,
			Brand:    "Otterbox",
			Category: CategoryAccessories,
			Specs: map[string]string{
				"material":       "Synthetic rubber + Polycarbonate",
				"compatibleWith": "Samsung Galaxy S23",
				"features":       "Military-grade drop protection",
				"color":          "Blue",
			},
		},
		{
			ID:       14,
			Name:     "Screen Protector",
			Price:    decimal.NewFromInt(19),
			Stock:    100,
			Brand:    "Belkin",
			Category: CategoryAccessories,
			Specs: map[string]string{
				"material":       "Tempered Glass",
				"thickness":      "0.3mm",
				"features":       "Anti-fingerprint, 9H hardness",
				"compatibleWith": "Multiple phones",
			},
		},
		{
			ID:       15,
			Name:     "Wireless Charger",
			Price:    decimal.NewFromInt(49),
			Stock:    30,
			Brand:    "Anker",
			Category: CategoryAccessories,
			Specs: map[string]string{
				"power":         "15W",
				"compatibility": "Qi-enabled devices",
				"features":      "LED indicator, foreign object detection",
				"color":         "Black",
			},
		},
		{
			ID:       16,
			Name:     "Power Bank 10000mAh",
			Price:    decimal.NewFromInt(59),
			Stock:    25,
			Brand:    "RavPower",
			Category: CategoryAccessories,
			Specs: map[string]string{
				"capacity": "10000mAh",
				"ports":    "USB-C, USB-A",
				"features": "Fast charging, LED power indicator",
				"color":    "White",
			},
		},
		{
			ID:       17,
			Name:     "Bluetooth Speaker",
			Price:    decimal.NewFromInt(79),
			Stock:    18,
			Brand:    "JBL",
			Category: CategoryAccessories,
			Specs: map[string]string{
				"power":       "20W",
				"batteryLife": "Up to 12 hours",
				"features":    "Waterproof, Bluetooth 5.1",
				"color":       "Red",
			},
		},
		{
			ID:       18,
			Name:     "USB-C Cable Pack",
			Price:    decimal.NewFromInt(19),
			Stock:    60,
			Brand:    "Amazon Basics",
			Category: CategoryAccessories,
			Specs: map[string]string{
				"length":     "3ft, 6ft, 10ft",
				"durability": "Braided nylon",
				"features":   "Fast charging support",
				"quantity":   "3-pack",
			},
		},
	}
}
