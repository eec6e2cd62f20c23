// Demo driver: seeds a book on both sides, crosses the spread with a
// limit order, sweeps with a market order and cancels a resting order,
// printing the book after each step.
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/erain9/ticklob/pkg/core"
	"github.com/erain9/ticklob/pkg/messaging"
)

var (
	cyan  = color.New(color.FgCyan).SprintfFunc()
	red   = color.New(color.FgRed).SprintfFunc()
	green = color.New(color.FgGreen).SprintfFunc()
)

func printBook(book *core.Book) {
	asks := book.GetAsks(5)
	bids := book.GetBids(5)

	fmt.Println()
	fmt.Println(cyan("--- Order Book ---"))
	fmt.Printf("%-12s%-12s%-10s\n", "Price", "Quantity", "Orders")
	fmt.Println(strings.Repeat("-", 34))

	// Asks in reverse (highest first) for visual clarity.
	fmt.Println("  Asks:")
	for i := len(asks) - 1; i >= 0; i-- {
		fmt.Println(red("    %-10s%-10d%-10d",
			messaging.FormatPrice(asks[i].Price), asks[i].TotalQuantity, asks[i].OrderCount))
	}

	fmt.Println("  ----------")

	fmt.Println("  Bids:")
	for _, lvl := range bids {
		fmt.Println(green("    %-10s%-10d%-10d",
			messaging.FormatPrice(lvl.Price), lvl.TotalQuantity, lvl.OrderCount))
	}
	fmt.Println()
}

func printResult(action string, r core.OrderResult) {
	fmt.Printf("%s -> OrderId=%d filled=%d remaining=%d", action, r.OrderID, r.FilledQuantity, r.RemainingQuantity)
	if len(r.Fills) > 0 {
		parts := make([]string, 0, len(r.Fills))
		for _, fill := range r.Fills {
			parts = append(parts, fmt.Sprintf("%d@%s", fill.Quantity, messaging.FormatPrice(fill.Price)))
		}
		fmt.Printf(" fills=[%s]", strings.Join(parts, ", "))
	}
	fmt.Println()
}

func main() {
	book, err := core.NewBook(core.DefaultConfig())
	if err != nil {
		panic(err)
	}

	fmt.Println(cyan("=== Order Book Demo ==="))

	// Place some sell orders
	printResult("SELL 100@$100.50", book.AddOrder(core.Sell, core.Limit, 10050, 100))
	printResult("SELL  50@$100.00", book.AddOrder(core.Sell, core.Limit, 10000, 50))
	printResult("SELL  75@$101.00", book.AddOrder(core.Sell, core.Limit, 10100, 75))

	// Place some buy orders
	printResult("BUY  100@$99.50 ", book.AddOrder(core.Buy, core.Limit, 9950, 100))
	printResult("BUY   80@$99.00 ", book.AddOrder(core.Buy, core.Limit, 9900, 80))
	printResult("BUY   60@$99.50 ", book.AddOrder(core.Buy, core.Limit, 9950, 60))

	printBook(book)

	// Aggressive buy order that crosses the spread
	fmt.Println(cyan("--- Crossing the spread ---"))
	printResult("BUY  120@$100.50", book.AddOrder(core.Buy, core.Limit, 10050, 120))
	printBook(book)

	// Market order
	fmt.Println(cyan("--- Market sell order ---"))
	printResult("SELL MKT qty=200", book.AddOrder(core.Sell, core.Market, 0, 200))
	printBook(book)

	// Cancel an order
	fmt.Println(cyan("--- Cancel order ---"))
	r := book.AddOrder(core.Buy, core.Limit, 9800, 500)
	printResult("BUY  500@$98.00 ", r)
	status := "failed"
	if book.CancelOrder(r.OrderID) {
		status = "success"
	}
	fmt.Printf("Cancel OrderId=%d -> %s\n", r.OrderID, status)
	printBook(book)
}
