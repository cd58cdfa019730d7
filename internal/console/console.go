// Package console drives the order wizard from a line-based terminal
// session.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/evdealer-wizard/internal/dealerapi"
	"github.com/xenking/evdealer-wizard/internal/domain/auth"
	"github.com/xenking/evdealer-wizard/internal/domain/customer"
	"github.com/xenking/evdealer-wizard/internal/domain/order"
	"github.com/xenking/evdealer-wizard/internal/wizard"
)

// errQuit ends the session on request.
var errQuit = errors.New("quit")

// Console reads commands from in and writes the wizard screens to out.
type Console struct {
	w   *wizard.Wizard
	in  *bufio.Scanner
	out io.Writer
	lg  *zap.Logger

	// customers is the last list shown, for "pick".
	customers []customer.Customer
}

// New creates a Console for w.
func New(w *wizard.Wizard, in io.Reader, out io.Writer, lg *zap.Logger) *Console {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Console{w: w, in: bufio.NewScanner(in), out: out, lg: lg}
}

// Run processes commands until the input ends, the user quits or the
// session expires. Each submitted order starts a fresh one.
func (c *Console) Run(ctx context.Context) error {
	defer c.w.Close()

	c.printStep()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.printf("%s> ", strings.ToLower(c.w.Step().String()))
		if !c.in.Scan() {
			c.println("")
			return c.in.Err()
		}
		line := strings.TrimSpace(c.in.Text())
		if line == "" {
			continue
		}

		err := c.exec(ctx, line)
		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, auth.ErrSessionExpired):
			c.println(RenderError("Your session has expired. Log in again and restart the wizard."))
			return err
		case err != nil:
			c.lg.Debug("Command failed", zap.String("command", line), zap.Error(err))
			c.println(RenderError(Message(err)))
		}
	}
}

func (c *Console) exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	cmd, args := strings.ToLower(fields[0]), fields[1:]
	rest := strings.TrimSpace(strings.TrimPrefix(line, fields[0]))

	switch cmd {
	case "quit", "exit", "q":
		return errQuit
	case "help", "?":
		c.println(c.help())
		return nil
	case "show", "ls":
		c.printStep()
		return nil
	case "next", "n":
		if err := c.w.Next(ctx); err != nil {
			return err
		}
		c.printStep()
		return nil
	case "back", "b":
		err := c.w.Prev(ctx)
		c.printStep()
		return err
	case "refresh":
		if err := c.w.Refresh(ctx); err != nil {
			return err
		}
		c.printStep()
		return nil
	case "reset":
		if err := c.w.Reset(); err != nil {
			return err
		}
		c.println(RenderNotice("Order abandoned. Records already saved stay on the backend."))
		c.printStep()
		return nil
	}

	switch c.w.Step() {
	case wizard.StepCustomerInfo:
		return c.execCustomer(ctx, cmd, args, rest)
	case wizard.StepVehicleSelection:
		return c.execVehicles(ctx, cmd, args)
	case wizard.StepPromotion:
		return c.execPromotion(ctx, cmd, args)
	case wizard.StepPayment:
		return c.execPayment(cmd, args)
	case wizard.StepConfirmation:
		return c.execConfirmation(ctx, cmd)
	}
	return errors.Errorf("unknown command %q, type help", cmd)
}

func (c *Console) execCustomer(ctx context.Context, cmd string, args []string, rest string) error {
	switch cmd {
	case "name":
		return c.w.SetName(rest)
	case "email":
		return c.w.SetEmail(rest)
	case "phone":
		res, err := c.w.LookupPhone(ctx, rest)
		if err != nil {
			return err
		}
		switch {
		case res.Found:
			c.println(RenderSuccess(fmt.Sprintf("Found customer #%d.", res.Customer.ID)))
			c.println(RenderCustomer(c.w.State().Customer, res.Customer.ID))
		case res.Failed.Failed():
			c.println(RenderNotice("Customer lookup is unavailable, continue typing the details."))
		}
		return nil
	case "customers":
		list, err := c.w.Customers(ctx)
		if err != nil {
			return err
		}
		c.customers = list
		c.println(RenderCustomers(list))
		return nil
	case "pick":
		i, err := index(args, len(c.customers))
		if err != nil {
			return err
		}
		if err := c.w.PickCustomer(c.customers[i]); err != nil {
			return err
		}
		st := c.w.State()
		c.println(RenderCustomer(st.Customer, st.CustomerID))
		return nil
	}
	return errors.Errorf("unknown command %q, type help", cmd)
}

func (c *Console) execVehicles(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "catalog":
		c.println(RenderCatalog(c.w.State().Vehicles))
		return nil
	case "add":
		// add <vehicle#> <color...> [qty]
		if len(args) < 2 {
			return errors.New("usage: add <vehicle#> <color> [quantity]")
		}
		vehicles := c.w.State().Vehicles
		i, err := index(args[:1], len(vehicles))
		if err != nil {
			return err
		}
		colorArgs, qty := args[1:], 1
		if n, err := strconv.Atoi(colorArgs[len(colorArgs)-1]); err == nil && len(colorArgs) > 1 {
			qty = n
			colorArgs = colorArgs[:len(colorArgs)-1]
		}
		item, err := c.w.AddLineItem(ctx, vehicles[i], strings.Join(colorArgs, " "), qty)
		if err != nil {
			return err
		}
		c.println(RenderSuccess(fmt.Sprintf("Added %s %s x%d.", vehicles[i].DisplayName(), item.Color, item.Quantity)))
		c.println(RenderCart(c.w.State().Cart, c.w.Totals()))
		return nil
	case "rm", "remove":
		i, err := index(args, len(c.w.State().Cart))
		if err != nil {
			return err
		}
		if err := c.w.RemoveLineItem(ctx, i); err != nil {
			return err
		}
		c.println(RenderCart(c.w.State().Cart, c.w.Totals()))
		return nil
	case "qty":
		if len(args) != 2 {
			return errors.New("usage: qty <line#> <quantity>")
		}
		i, err := index(args[:1], len(c.w.State().Cart))
		if err != nil {
			return err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return errors.Errorf("invalid quantity %q", args[1])
		}
		if err := c.w.UpdateQuantity(ctx, i, n); err != nil {
			return err
		}
		c.println(RenderCart(c.w.State().Cart, c.w.Totals()))
		return nil
	}
	return errors.Errorf("unknown command %q, type help", cmd)
}

func (c *Console) execPromotion(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "use":
		promos := c.w.Promotions()
		i, err := index(args, len(promos))
		if err != nil {
			return err
		}
		if err := c.w.SelectPromotion(ctx, &promos[i]); err != nil {
			return err
		}
	case "none":
		if err := c.w.SelectPromotion(ctx, nil); err != nil {
			return err
		}
	default:
		return errors.Errorf("unknown command %q, type help", cmd)
	}
	c.printStep()
	return nil
}

func (c *Console) execPayment(cmd string, args []string) error {
	if cmd != "pay" || len(args) != 1 {
		return errors.Errorf("unknown command %q, type help", cmd)
	}
	var m order.PaymentMethod
	switch strings.ToLower(args[0]) {
	case "full":
		m = order.PaymentFull
	case "installment":
		m = order.PaymentInstallment
	default:
		m = order.PaymentMethod(strings.ToUpper(args[0]))
	}
	if err := c.w.SetPaymentMethod(m); err != nil {
		return err
	}
	c.printStep()
	return nil
}

func (c *Console) execConfirmation(ctx context.Context, cmd string) error {
	if cmd != "submit" {
		return errors.Errorf("unknown command %q, type help", cmd)
	}
	res, err := c.w.Submit(ctx)
	if err != nil {
		var perr *wizard.PreconditionError
		if errors.As(err, &perr) {
			c.printStep()
		}
		return err
	}
	c.println(RenderSuccess(fmt.Sprintf("Order #%d submitted, status %s.", res.OrderID, res.Status)))
	if res.StatusUpdate.Failed() {
		c.println(RenderNotice("The order status could not be updated; the backend will keep it as a draft."))
	}
	c.println(dimStyle.Render("Starting a new order."))
	c.printStep()
	return nil
}

func (c *Console) printStep() {
	st := c.w.State()
	c.println("")
	c.println(RenderProgress(st.Step))
	switch st.Step {
	case wizard.StepCustomerInfo:
		c.println(RenderCustomer(st.Customer, st.CustomerID))
	case wizard.StepVehicleSelection:
		c.println(RenderCatalog(st.Vehicles))
		c.println(RenderCart(st.Cart, c.w.Totals()))
	case wizard.StepPromotion:
		c.println(RenderPromotions(st.Promotions, st.Promotion))
		c.println(RenderCart(st.Cart, c.w.Totals()))
	case wizard.StepPayment:
		method := st.PaymentMethod
		if method == "" {
			method = order.PaymentFull
		}
		c.println(labelStyle.Render("Payment") + paymentLabel(method))
	case wizard.StepConfirmation:
		if st.Summary != nil {
			c.println(RenderSummary(st.Summary))
		} else {
			c.println(RenderCart(st.Cart, c.w.Totals()))
		}
	}
	c.println(dimStyle.Render(stepHint(st.Step)))
}

func stepHint(s wizard.Step) string {
	switch s {
	case wizard.StepCustomerInfo:
		return "phone <number> | name <full name> | email <address> | customers | pick <#> | next"
	case wizard.StepVehicleSelection:
		return "add <vehicle#> <color> [qty] | qty <line#> <n> | rm <line#> | catalog | next | back"
	case wizard.StepPromotion:
		return "use <#> | none | next | back"
	case wizard.StepPayment:
		return "pay full | next | back"
	case wizard.StepConfirmation:
		return "submit | back"
	default:
		return ""
	}
}

func (c *Console) help() string {
	return stepHint(c.w.Step()) + "\n" + dimStyle.Render("show | refresh | reset | quit")
}

func (c *Console) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(c.out, format, args...)
}

func (c *Console) println(s string) {
	_, _ = fmt.Fprintln(c.out, s)
}

// index parses a 1-based list position.
func index(args []string, n int) (int, error) {
	if len(args) != 1 {
		return 0, errors.New("expected one item number")
	}
	i, err := strconv.Atoi(args[0])
	if err != nil || i < 1 || i > n {
		return 0, errors.Errorf("no item %q", args[0])
	}
	return i - 1, nil
}

// Message returns the text shown to the staff member for err.
func Message(err error) string {
	var (
		verr   *customer.ValidationError
		perr   *wizard.PreconditionError
		apiErr *dealerapi.APIError
	)
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.As(err, &perr):
		return perr.Message
	case errors.Is(err, wizard.ErrBusy):
		return "Please wait, the previous action is still running."
	case errors.Is(err, wizard.ErrCannotAdvance):
		return "Complete this step before continuing."
	case errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return apiErr.Error()
	default:
		return err.Error()
	}
}
