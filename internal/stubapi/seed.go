package stubapi

import "sweetshop-admin/internal/models"

// SeedSweets is the starter catalog.
var SeedSweets = []models.Sweet{
	{Name: "Chocolate Truffle", Description: "Rich dark chocolate truffle", Price: 2.50, Stock: 100, Category: "Chocolate"},
	{Name: "Strawberry Candy", Description: "Sweet strawberry flavored candy", Price: 1.50, Stock: 150, Category: "Candy"},
	{Name: "Vanilla Cupcake", Description: "Delicious vanilla cupcake with frosting", Price: 3.00, Stock: 50, Category: "Baked"},
	{Name: "Lemon Drops", Description: "Tangy lemon flavored drops", Price: 1.00, Stock: 200, Category: "Candy"},
	{Name: "Caramel Fudge", Description: "Smooth caramel fudge", Price: 2.00, Stock: 80, Category: "Fudge"},
	{Name: "Mint Chocolate", Description: "Refreshing mint chocolate", Price: 2.25, Stock: 120, Category: "Chocolate"},
}

var SeedCustomers = []models.Customer{
	{Name: "John Doe", Email: "john@example.com", Phone: "123-456-7890", Address: "123 Main St"},
	{Name: "Jane Smith", Email: "jane@example.com", Phone: "234-567-8901", Address: "456 Oak Ave"},
	{Name: "Bob Johnson", Email: "bob@example.com", Phone: "345-678-9012", Address: "789 Pine Rd"},
}
