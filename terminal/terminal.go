package terminal

import (
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	str2duration "github.com/xhit/go-str2duration/v2"

	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/helpers"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/providers/paper"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/services"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/ui"
)

// Terminal wires catalog, price feed, book synthesizer, order form engine
// and the dashboard together from env configuration.
type Terminal struct {
}

func init() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")
}

type wiring struct {
	feed *services.PriceFeedService
	form *services.OrderFormService
	book *services.OrderBookService
	ui   *ui.UserInterface
}

func (t *Terminal) wire(c *cli.Context) (*wiring, error) {
	pairID := c.String("pair")
	if pairID == "" {
		pairID = os.Getenv("pair")
	}
	if pairID == "" {
		pairID = "BTC-EUR"
	}

	intervalString := os.Getenv("tickInterval")
	if intervalString == "" {
		intervalString = "1s"
	}
	interval, err := str2duration.ParseDuration(intervalString)
	if err != nil {
		return nil, fmt.Errorf("invalid tickInterval %q: %w", intervalString, err)
	}

	delta := 0.002
	if env := os.Getenv("maxTickPct"); env != "" {
		delta, err = strconv.ParseFloat(env, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid maxTickPct %q: %w", env, err)
		}
	}

	var rng *rand.Rand
	if env := os.Getenv("randomSeed"); env != "" {
		seed, err := strconv.ParseInt(env, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid randomSeed %q: %w", env, err)
		}
		rng = rand.New(rand.NewSource(seed))
	}

	catalog := services.NewPairCatalogService()
	pair, err := catalog.Lookup(pairID)
	if err != nil {
		return nil, err
	}

	feed, err := services.NewPriceFeedService(catalog.Pairs(), delta, interval, rng)
	if err != nil {
		return nil, err
	}

	book, err := services.NewOrderBookService(services.DefaultBookDepth, services.DefaultTradeCount,
		services.DefaultTickFraction, rng)
	if err != nil {
		return nil, err
	}

	account := paper.NewPaperService()
	quote, _ := feed.Quote(pair.ID)
	form := services.NewOrderFormService(pair, account, quote)

	userInterface := &ui.UserInterface{}
	userInterface.SetServices(pair, feed, book, form, account)

	return &wiring{feed: feed, form: form, book: book, ui: userInterface}, nil
}

// Run starts the interactive dashboard.
func (t *Terminal) Run(c *cli.Context) error {
	helpers.Logger.Infoln("🖖🏻 Trading terminal started")

	w, err := t.wire(c)
	if err != nil {
		return err
	}

	w.feed.Start()
	defer w.feed.Stop()

	w.ui.Run()
	return nil
}

// RunFeed runs the headless quote logger until interrupted.
func (t *Terminal) RunFeed(c *cli.Context) error {
	helpers.Logger.Infoln("🖖🏻 Headless price feed started")

	w, err := t.wire(c)
	if err != nil {
		return err
	}

	pair := w.form.Pair()
	sub, err := w.feed.Subscribe(pair.ID)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	w.feed.Start()
	defer w.feed.Stop()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	for {
		select {
		case quote := <-sub.C:
			helpers.Logger.Infoln(fmt.Sprintf("%s %s (high %s, low %s, %.2f%%)",
				quote.PairID, pair.FormatPrice(quote.Price),
				pair.FormatPrice(quote.High), pair.FormatPrice(quote.Low), quote.ChangePct))
		case <-interrupt:
			helpers.Logger.Infoln("Exited by signal")
			return nil
		}
	}
}
