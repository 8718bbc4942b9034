// Команда libco — клиент заказов книжного магазина: просмотр каталога,
// сборка корзины, отправка заказа с автоматической валидацией,
// подтверждение и отмена.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/avc/libco-orders/internal/config"
	"github.com/avc/libco-orders/internal/domain"
	"github.com/avc/libco-orders/internal/logging"
	"github.com/avc/libco-orders/internal/service"
	"github.com/avc/libco-orders/internal/state"
	"github.com/avc/libco-orders/internal/transport/rest"
	"github.com/avc/libco-orders/internal/utils/jwt"
)

const usage = `usage: libco [-s url] [-t token] <command>

commands:
  register <login> <password>   register and print a token
  login <login> <password>      log in and print a token
  products                      list the catalog
  submit <id:qty> [id:qty ...]  submit a cart as an order (validates it)
  validate <order-id>           re-run availability validation
  confirm <order-id>            confirm a validated order
  cancel <order-id>             cancel a non-terminal order
  orders [page]                 list your orders
  details <order-id>            show order line items
`

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	client := rest.NewClient(rest.Config{
		BaseURL:  cfg.ServerAddress,
		Timeout:  cfg.RequestTimeout,
		RetryMax: cfg.RetryMax,
	}, logger)

	store := state.NewStore()
	orchestrator := service.NewOrchestrator(client, store, logger)

	ctx := context.Background()
	if err := run(ctx, args, cfg, client, orchestrator, store); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, cfg *config.ClientConfig, client *rest.Client, orchestrator *service.Orchestrator, store *state.Store) error {
	command, params := args[0], args[1:]

	switch command {
	case "register", "login":
		if len(params) != 2 {
			return fmt.Errorf("%s requiere login y contraseña", command)
		}
		var token string
		var err error
		if command == "register" {
			token, err = client.Register(ctx, params[0], params[1])
		} else {
			token, err = client.Login(ctx, params[0], params[1])
		}
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil

	case "products":
		products, err := client.GetProducts(ctx, cfg.Token)
		if err != nil {
			return err
		}
		for _, p := range products {
			fmt.Printf("%4d  %-40s  %-28s  %10s  disponibles: %d\n",
				p.ProductID, p.Title, p.Author, p.Price.StringFixed(2), p.Available)
		}
		return nil

	case "submit":
		return submit(ctx, params, cfg, client, orchestrator, store)

	case "validate":
		orderID, err := parseOrderID(params)
		if err != nil {
			return err
		}
		result, err := orchestrator.Validate(ctx, orderID, cfg.Token)
		if err != nil {
			return err
		}
		printValidation(result)
		return nil

	case "confirm":
		orderID, err := parseOrderID(params)
		if err != nil {
			return err
		}
		order, err := orchestrator.Confirm(ctx, orderID, cfg.Token)
		if err != nil {
			return err
		}
		printOrder(*order)
		return nil

	case "cancel":
		orderID, err := parseOrderID(params)
		if err != nil {
			return err
		}
		order, err := orchestrator.Cancel(ctx, orderID, cfg.Token)
		if err != nil {
			return err
		}
		printOrder(*order)
		return nil

	case "orders":
		page := 1
		if len(params) > 0 {
			parsed, err := strconv.Atoi(params[0])
			if err != nil || parsed < 1 {
				return fmt.Errorf("página inválida: %s", params[0])
			}
			page = parsed
		}
		userID, err := jwt.ExtractUserID(cfg.Token)
		if err != nil {
			return fmt.Errorf("token inválido: %w", err)
		}
		result := orchestrator.FetchOrders(ctx, userID, page, cfg.PageSize, cfg.Token)
		if result == nil {
			if stateErr := store.State().Err; stateErr != nil {
				return stateErr
			}
			return errors.New("no se pudo obtener los pedidos")
		}
		for _, order := range result.Orders {
			printOrder(order)
		}
		fmt.Printf("página %d de %d (%d pedidos)\n", result.Page, result.TotalPages, result.TotalOrders)
		return nil

	case "details":
		orderID, err := parseOrderID(params)
		if err != nil {
			return err
		}
		details, err := orchestrator.OrderDetails(ctx, orderID, cfg.Token)
		if err != nil {
			return err
		}
		for _, d := range details {
			fmt.Printf("%4d  %-40s  x%d  %10s  =%10s\n",
				d.ProductID, d.ProductTitle, d.Quantity, d.UnitPrice.StringFixed(2), d.SubTotal.StringFixed(2))
		}
		return nil

	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("comando desconocido: %s", command)
	}
}

// submit собирает корзину из аргументов вида id:qty и отправляет заказ.
// Частичный исход (заказ создан, валидация не прошла) не считается
// отказом: заказ печатается вместе с ошибкой валидации
func submit(ctx context.Context, entries []string, cfg *config.ClientConfig, client *rest.Client, orchestrator *service.Orchestrator, store *state.Store) error {
	if len(entries) == 0 {
		return errors.New("submit requiere al menos una posición id:qty")
	}

	products, err := client.GetProducts(ctx, cfg.Token)
	if err != nil {
		return err
	}
	byID := make(map[int64]domain.Product, len(products))
	for _, p := range products {
		byID[p.ProductID] = p
	}

	for _, entry := range entries {
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("posición inválida: %s", entry)
		}
		productID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return fmt.Errorf("posición inválida: %s", entry)
		}
		quantity, err := strconv.Atoi(parts[1])
		if err != nil || quantity <= 0 {
			return fmt.Errorf("cantidad inválida: %s", entry)
		}
		product, ok := byID[productID]
		if !ok {
			return fmt.Errorf("producto %d no está en el catálogo", productID)
		}
		orchestrator.AddToCart(product, quantity)
	}

	cart := store.State().CurrentOrder
	fmt.Printf("carrito: %d artículos, total %s\n", orchestrator.CartItemCount(), cart.Total.StringFixed(2))

	result, err := orchestrator.Submit(ctx, cfg.Token)
	if err != nil {
		return err
	}

	printOrder(*result.Order)
	if result.Validation != nil {
		printValidation(result.Validation)
	}
	if result.Err != nil {
		fmt.Println("el pedido fue creado pero no validado:")
		printError(result.Err)
	}
	return nil
}

func parseOrderID(args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.New("se requiere exactamente un id de pedido")
	}
	orderID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("id de pedido inválido: %s", args[0])
	}
	return orderID, nil
}

func printOrder(order domain.Order) {
	fmt.Printf("pedido %d  [%s]  %d artículos  total %s  creado %s\n",
		order.OrderID, order.Status, order.ItemsCount,
		order.Total.StringFixed(2), order.CreatedAt.Format("2006-01-02 15:04"))
}

func printValidation(result *domain.ValidationResult) {
	fmt.Printf("validación: estado %s\n", result.Status)
	for _, message := range result.Messages {
		fmt.Printf("  %s\n", message)
	}
}

func printError(err error) {
	var structured *domain.StructuredError
	if errors.As(err, &structured) {
		fmt.Fprintf(os.Stderr, "[%s] %s\n", structured.Kind, structured.Message)
		for _, conflict := range structured.StockDetail {
			fmt.Fprintf(os.Stderr, "  producto %d (%s): disponible %d, solicitado %d\n",
				conflict.ProductID, conflict.ProductTitle,
				conflict.AvailableQuantity, conflict.RequestedQuantity)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}
