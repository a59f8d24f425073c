package datagen

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// Config controls how many rows each generator produces and where the
// ID ranges start. The defaults extend a seed dataset that already
// holds 10 customers, 5 suppliers, 5 parts, and 34 orders.
type Config struct {
	CustomerStart int
	CustomerCount int
	SupplierStart int
	SupplierCount int
	PartStart     int
	PartCount     int
	OrderStart    int
	OrderCount    int

	// Totals used when generating cross-references. They cover the
	// seed rows plus the generated ones.
	TotalParts     int
	TotalSuppliers int
	TotalOrders    int
	TotalCustomers int
}

// DefaultConfig returns the row counts that grow the seed dataset to
// 50 customers, 50 suppliers, 200 parts, and 100 orders.
func DefaultConfig() Config {
	return Config{
		CustomerStart:  11,
		CustomerCount:  40,
		SupplierStart:  6,
		SupplierCount:  45,
		PartStart:      6,
		PartCount:      195,
		OrderStart:     35,
		OrderCount:     66,
		TotalParts:     200,
		TotalSuppliers: 50,
		TotalOrders:    100,
		TotalCustomers: 50,
	}
}

// Generator produces deterministic TPC-H style inserts from a seed.
type Generator struct {
	rng *rand.Rand
}

// New creates a Generator seeded for reproducible output.
func New(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// epoch is the base date for all generated order and shipment dates.
var epoch = time.Date(1992, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	segments     = []string{"AUTOMOBILE", "BUILDING", "FURNITURE", "MACHINERY", "HOUSEHOLD"}
	partTypes    = []string{"STANDARD POLISHED", "SMALL PLATED", "MEDIUM BURNISHED", "LARGE BRUSHED", "PROMO ANODIZED"}
	materials    = []string{"BRASS", "COPPER", "NICKEL", "STEEL", "TIN"}
	containers   = []string{"SM CASE", "SM BOX", "SM PACK", "SM PKG", "MED BAG", "MED BOX", "MED PKG", "LG CASE", "LG BOX", "LG PACK"}
	orderStatus  = []string{"O", "F", "P"}
	priorities   = []string{"1-URGENT", "2-HIGH", "3-MEDIUM", "4-NOT SPECIFIED", "5-LOW"}
	lineStatus   = []string{"O", "F"}
	returnFlags  = []string{"N", "R", "A"}
	instructions = []string{"DELIVER IN PERSON", "COLLECT COD", "NONE", "TAKE BACK RETURN"}
	shipModes    = []string{"REG AIR", "AIR", "RAIL", "SHIP", "TRUCK", "MAIL", "FOB"}
)

func (g *Generator) pick(values []string) string {
	return values[g.rng.Intn(len(values))]
}

// between returns a uniform integer in [lo, hi].
func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// money returns a uniform amount in [lo, hi) rounded to cents.
func (g *Generator) money(lo, hi float64) float64 {
	v := lo + g.rng.Float64()*(hi-lo)
	return float64(int(v*100+0.5)) / 100
}

func (g *Generator) phone() string {
	return fmt.Sprintf("%d-%d-%d-%d",
		g.between(10, 30), g.between(100, 999), g.between(100, 999), g.between(1000, 9999))
}

// nationKey picks one of the 25 standard nations (0-24).
func (g *Generator) nationKey() int {
	return g.rng.Intn(25)
}

// Customers generates INSERT rows for the customer table.
func (g *Generator) Customers(startID, count int) string {
	rows := make([]string, 0, count)
	for i := startID; i < startID+count; i++ {
		rows = append(rows, fmt.Sprintf(
			"    (%d, 'Customer#%09d', 'Address%d', %d, '%s', %.2f, '%s', 'comment %d')",
			i, i, i, g.nationKey(), g.phone(), g.money(-999.99, 9999.99), g.pick(segments), i))
	}
	return insertBlock("customer", rows)
}

// Suppliers generates INSERT rows for the supplier table.
func (g *Generator) Suppliers(startID, count int) string {
	rows := make([]string, 0, count)
	for i := startID; i < startID+count; i++ {
		rows = append(rows, fmt.Sprintf(
			"    (%d, 'Supplier#%09d', 'SupplierAddr%d', %d, '%s', %.2f, 'supplier comment %d')",
			i, i, i, g.nationKey(), g.phone(), g.money(-999.99, 9999.99), i))
	}
	return insertBlock("supplier", rows)
}

// Parts generates INSERT rows for the part table.
func (g *Generator) Parts(startID, count int) string {
	rows := make([]string, 0, count)
	for i := startID; i < startID+count; i++ {
		mfgr := fmt.Sprintf("Manufacturer#%d", g.between(1, 5))
		brand := fmt.Sprintf("Brand#%d%d", g.between(1, 5), g.between(1, 5))
		ptype := g.pick(partTypes) + " " + g.pick(materials)
		rows = append(rows, fmt.Sprintf(
			"    (%d, 'part name %d', '%s', '%s', '%s', %d, '%s', %.2f, 'part comment %d')",
			i, i, mfgr, brand, ptype, g.between(1, 50), g.pick(containers), g.money(900, 2000), i))
	}
	return insertBlock("part", rows)
}

// Orders generates INSERT rows for the orders table. Order dates fall
// within roughly seven years of the 1992-01-01 epoch.
func (g *Generator) Orders(startID, count, totalCustomers int) string {
	rows := make([]string, 0, count)
	for i := startID; i < startID+count; i++ {
		orderDate := epoch.AddDate(0, 0, g.between(0, 2500))
		clerk := fmt.Sprintf("Clerk#%09d", g.between(1, 1000))
		rows = append(rows, fmt.Sprintf(
			"    (%d, %d, '%s', %.2f, '%s', '%s', '%s', 0, 'order comment %d')",
			i, g.between(1, totalCustomers), g.pick(orderStatus),
			g.money(10000, 500000), orderDate.Format("2006-01-02"),
			g.pick(priorities), clerk, i))
	}
	return insertBlock("orders", rows)
}

// PartSupp generates the part-supplier cross table: each part is
// supplied by 2 to 4 distinct suppliers.
func (g *Generator) PartSupp(totalParts, totalSuppliers int) string {
	var rows []string
	for partID := 1; partID <= totalParts; partID++ {
		for _, suppID := range g.sample(totalSuppliers, g.between(2, 4)) {
			rows = append(rows, fmt.Sprintf(
				"    (%d, %d, %d, %.2f, 'partsupp comment')",
				partID, suppID, g.between(100, 10000), g.money(10, 1000)))
		}
	}
	return insertBlock("partsupp", rows)
}

// LineItems generates 1 to 5 line items per order. Commit dates precede
// ship dates and receipt dates follow them.
func (g *Generator) LineItems(startOrder, endOrder, totalParts, totalSuppliers int) string {
	var rows []string
	for orderID := startOrder; orderID <= endOrder; orderID++ {
		lines := g.between(1, 5)
		for lineNum := 1; lineNum <= lines; lineNum++ {
			qty := g.between(1, 50)
			price := g.money(900, 2000)
			extended := float64(int(float64(qty)*price*100+0.5)) / 100

			shipDate := epoch.AddDate(0, 0, g.between(0, 2500))
			commitDate := shipDate.AddDate(0, 0, -g.between(1, 30))
			receiptDate := shipDate.AddDate(0, 0, g.between(1, 30))

			rows = append(rows, fmt.Sprintf(
				"    (%d, %d, %d, %d, %d, %.2f, %.2f, %.2f, '%s', '%s', '%s', '%s', '%s', '%s', '%s', 'lineitem comment')",
				orderID, g.between(1, totalParts), g.between(1, totalSuppliers), lineNum,
				qty, extended, g.money(0, 0.10), g.money(0, 0.08),
				g.pick(returnFlags), g.pick(lineStatus),
				shipDate.Format("2006-01-02"), commitDate.Format("2006-01-02"), receiptDate.Format("2006-01-02"),
				g.pick(instructions), g.pick(shipModes)))
		}
	}
	return insertBlock("lineitem", rows)
}

// Script generates the full supplemental dataset as one SQL script.
func (g *Generator) Script(cfg Config) string {
	var b strings.Builder

	b.WriteString("-- Additional Customer Data\n")
	b.WriteString(g.Customers(cfg.CustomerStart, cfg.CustomerCount))
	b.WriteString("\n\n-- Additional Supplier Data\n")
	b.WriteString(g.Suppliers(cfg.SupplierStart, cfg.SupplierCount))
	b.WriteString("\n\n-- Additional Part Data\n")
	b.WriteString(g.Parts(cfg.PartStart, cfg.PartCount))
	b.WriteString("\n\n-- Additional Order Data\n")
	b.WriteString(g.Orders(cfg.OrderStart, cfg.OrderCount, cfg.TotalCustomers))
	b.WriteString("\n\n-- Additional PartSupp Data\n")
	b.WriteString(g.PartSupp(cfg.TotalParts, cfg.TotalSuppliers))
	b.WriteString("\n\n-- Additional LineItem Data\n")
	b.WriteString(g.LineItems(1, cfg.TotalOrders, cfg.TotalParts, cfg.TotalSuppliers))
	b.WriteString("\n")

	return b.String()
}

// sample returns n distinct IDs drawn from 1..total.
func (g *Generator) sample(total, n int) []int {
	perm := g.rng.Perm(total)[:n]
	ids := make([]int, n)
	for i, p := range perm {
		ids[i] = p + 1
	}
	return ids
}

// insertBlock joins rows into a single multi-row INSERT statement.
func insertBlock(table string, rows []string) string {
	return "INSERT INTO " + table + " VALUES\n" + strings.Join(rows, ",\n") + ";"
}
