package store

import (
	"context"

	"golang.org/x/crypto/bcrypt"

	"northwind-service/internal/model"
)

// Seed bootstraps the reference dataset on first use: 8 categories, 5
// suppliers and 8 products, plus two demo accounts for token issuance. It is
// idempotent; if any category exists the whole step is skipped.
func (s *Store) Seed(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Model(&model.Category{}).Count(&count).Error; err != nil {
		return wrap("seed", err)
	}
	if count > 0 {
		return nil
	}

	categories := []*model.Category{
		{Name: "Beverages", Description: strp("Soft drinks, coffees, teas, beers, and ales")},
		{Name: "Condiments", Description: strp("Sweet and savory sauces, relishes, spreads, and seasonings")},
		{Name: "Confections", Description: strp("Desserts, candies, and sweet breads")},
		{Name: "Dairy Products", Description: strp("Cheeses and other dairy products")},
		{Name: "Grains/Cereals", Description: strp("Breads, crackers, pasta, and cereal")},
		{Name: "Meat/Poultry", Description: strp("Prepared meats and poultry products")},
		{Name: "Produce", Description: strp("Dried fruit and bean curd")},
		{Name: "Seafood", Description: strp("Seaweed and fish products")},
	}
	batch := NewBatch()
	for _, c := range categories {
		batch.Add(c)
	}
	if err := s.Save(ctx, batch); err != nil {
		return err
	}

	suppliers := []*model.Supplier{
		{CompanyName: "Exotic Liquids", ContactName: strp("Charlotte Cooper"), City: strp("London"), Country: strp("UK"), Phone: strp("(171) 555-2222")},
		{CompanyName: "New Orleans Cajun Delights", ContactName: strp("Shelley Burke"), City: strp("New Orleans"), Region: strp("LA"), Country: strp("USA")},
		{CompanyName: "Grandma Kelly's Homestead", ContactName: strp("Regina Murphy"), City: strp("Ann Arbor"), Region: strp("MI"), Country: strp("USA")},
		{CompanyName: "Tokyo Traders", ContactName: strp("Yoshi Nagase"), City: strp("Tokyo"), Country: strp("Japan")},
		{CompanyName: "Cooperativa de Quesos 'Las Cabras'", ContactName: strp("Antonio del Valle Saavedra"), City: strp("Oviedo"), Country: strp("Spain")},
	}
	batch = NewBatch()
	for _, sup := range suppliers {
		batch.Add(sup)
	}
	if err := s.Save(ctx, batch); err != nil {
		return err
	}

	categoryID := func(name string) *uint {
		for _, c := range categories {
			if c.Name == name {
				return &c.ID
			}
		}
		return nil
	}
	supplierID := func(companyName string) *uint {
		for _, sup := range suppliers {
			if sup.CompanyName == companyName {
				return &sup.ID
			}
		}
		return nil
	}

	products := []*model.Product{
		{Name: "Chai", SupplierID: supplierID("Exotic Liquids"), CategoryID: categoryID("Beverages"), QuantityPerUnit: strp("10 boxes x 20 bags"), UnitPrice: f64p(18.00), UnitsInStock: i16p(39), ReorderLevel: i16p(10)},
		{Name: "Chang", SupplierID: supplierID("Exotic Liquids"), CategoryID: categoryID("Beverages"), QuantityPerUnit: strp("24 - 12 oz bottles"), UnitPrice: f64p(19.00), UnitsInStock: i16p(17), UnitsOnOrder: i16p(40), ReorderLevel: i16p(25)},
		{Name: "Aniseed Syrup", SupplierID: supplierID("Exotic Liquids"), CategoryID: categoryID("Condiments"), QuantityPerUnit: strp("12 - 550 ml bottles"), UnitPrice: f64p(10.00), UnitsInStock: i16p(13), ReorderLevel: i16p(25)},
		{Name: "Chef Anton's Cajun Seasoning", SupplierID: supplierID("New Orleans Cajun Delights"), CategoryID: categoryID("Condiments"), QuantityPerUnit: strp("48 - 6 oz jars"), UnitPrice: f64p(22.00), UnitsInStock: i16p(53)},
		{Name: "Chef Anton's Gumbo Mix", SupplierID: supplierID("New Orleans Cajun Delights"), CategoryID: categoryID("Condiments"), QuantityPerUnit: strp("36 boxes"), UnitPrice: f64p(21.35), UnitsInStock: i16p(0), Discontinued: true},
		{Name: "Ikura", SupplierID: supplierID("Tokyo Traders"), CategoryID: categoryID("Seafood"), QuantityPerUnit: strp("12 - 200 ml jars"), UnitPrice: f64p(31.00), UnitsInStock: i16p(31)},
		{Name: "Queso Cabrales", SupplierID: supplierID("Cooperativa de Quesos 'Las Cabras'"), CategoryID: categoryID("Dairy Products"), QuantityPerUnit: strp("1 kg pkg."), UnitPrice: f64p(21.00), UnitsInStock: i16p(22), UnitsOnOrder: i16p(30), ReorderLevel: i16p(30)},
		{Name: "Queso Manchego La Pastora", SupplierID: supplierID("Cooperativa de Quesos 'Las Cabras'"), CategoryID: categoryID("Dairy Products"), QuantityPerUnit: strp("10 - 500 g pkgs."), UnitPrice: f64p(38.00), UnitsInStock: i16p(86)},
	}
	batch = NewBatch()
	for _, p := range products {
		batch.Add(p)
	}
	if err := s.Save(ctx, batch); err != nil {
		return err
	}

	return s.seedUsers(ctx)
}

// seedUsers creates the demo accounts. Real deployments should replace these
// with provisioned users.
func (s *Store) seedUsers(ctx context.Context) error {
	accounts := []struct {
		email    string
		password string
		role     string
	}{
		{"admin@northwind.com", "admin123", model.RoleAdmin},
		{"user@northwind.com", "user123", model.RoleUser},
	}

	batch := NewBatch()
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.password), bcrypt.DefaultCost)
		if err != nil {
			return wrap("seed users", err)
		}
		batch.Add(&model.User{Email: a.email, Password: string(hash), Role: a.role})
	}
	return s.Save(ctx, batch)
}

func strp(s string) *string { return &s }

func f64p(f float64) *float64 { return &f }

func i16p(i int16) *int16 { return &i }
