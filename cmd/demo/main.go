package main

import (
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/shop/internal/domain"
	"github.com/vladislavdragonenkov/shop/internal/service/store"
)

func main() {
	log.SetLevel(log.WarnLevel)

	if err := run(os.Stdout); err != nil {
		log.WithError(err).Fatal("demo failed")
	}
}

// run проводит один заказ через магазин и печатает итоги в w.
func run(w io.Writer) error {
	shop := store.New()

	notebook, err := shop.RegisterProduct(1, "Notebook", domain.MoneyFromFloat(2500))
	if err != nil {
		return err
	}
	if err := shop.SetStock(notebook.ID, 10); err != nil {
		return err
	}

	mouse, err := shop.RegisterProduct(2, "Mouse", domain.MoneyFromFloat(50))
	if err != nil {
		return err
	}
	if err := shop.SetStock(mouse.ID, 20); err != nil {
		return err
	}

	customer, err := shop.RegisterCustomer(1, "João Silva", "joao@email.com")
	if err != nil {
		return err
	}

	order, err := shop.CreateOrder(customer.ID)
	if err != nil {
		return err
	}
	if err := order.AddLine(notebook, 1); err != nil {
		return err
	}
	if err := order.AddLine(mouse, 2); err != nil {
		return err
	}

	fmt.Fprintf(w, "Order total: %s\n", order.Total())

	if _, err := shop.Checkout(order.ID); err != nil {
		return err
	}

	fmt.Fprintf(w, "Customer total spent: %s\n", customer.TotalSpent())
	fmt.Fprintf(w, "Stock left: %s=%d, %s=%d\n", notebook.Name, notebook.Stock(), mouse.Name, mouse.Stock())
	return nil
}
