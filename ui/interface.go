package ui

import (
	"fmt"
	"time"

	"github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/helpers"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/interfaces"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/models"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/services"
)

// UserInterface is the terminal front end of the trading engine. It is
// strictly presentation glue: every keypress maps onto one engine call and
// every tick repaints from engine output.
type UserInterface struct {
	FeedService      *services.PriceFeedService
	BookService      *services.OrderBookService
	OrderFormService *services.OrderFormService
	AccountService   interfaces.AccountService

	pair    models.TradingPair
	quote   models.MarketQuote
	logList []string
}

func (ui *UserInterface) SetServices(pair models.TradingPair, feedService *services.PriceFeedService,
	bookService *services.OrderBookService, orderFormService *services.OrderFormService,
	accountService interfaces.AccountService) {
	ui.pair = pair
	ui.FeedService = feedService
	ui.BookService = bookService
	ui.OrderFormService = orderFormService
	ui.AccountService = accountService
	if quote, ok := feedService.Quote(pair.ID); ok {
		ui.quote = quote
	}
}

func (ui *UserInterface) Run() {
	if err := termui.Init(); err != nil {
		helpers.Logger.Errorln(fmt.Sprintf("failed to initialize termui: %v", err))
		return
	}
	defer termui.Close()

	sub, err := ui.FeedService.Subscribe(ui.pair.ID)
	if err != nil {
		helpers.Logger.Errorln("ui: " + err.Error())
		return
	}
	defer sub.Unsubscribe()

	ui.appendLog("Composing " + ui.pair.ID + " orders. Keys: s side, t type, 1-3 sizing, m max, Enter submit, q quit")
	ui.UpdateUI()

	uiEvents := termui.PollEvents()
	for {
		select {
		case e := <-uiEvents:
			if done := ui.handleKey(e); done {
				helpers.Logger.Infoln("Exited by keyboard interrupt")
				return
			}
			ui.UpdateUI()
		case quote := <-sub.C:
			ui.quote = quote
			ui.UpdateUI()
		}
	}
}

func (ui *UserInterface) handleKey(e termui.Event) bool {
	switch e.ID {
	case "q", "<C-c>":
		return true
	case "s":
		side := models.SideTypeBuy
		if ui.OrderFormService.Draft().Side == models.SideTypeBuy {
			side = models.SideTypeSell
		}
		ui.callForm(ui.OrderFormService.UpdateField(models.DraftFieldSide, string(side), ui.quote))
	case "t":
		orderType := models.OrderTypeLimit
		if ui.OrderFormService.Draft().Type == models.OrderTypeLimit {
			orderType = models.OrderTypeMarket
		}
		ui.callForm(ui.OrderFormService.UpdateField(models.DraftFieldOrderType, string(orderType), ui.quote))
	case "1":
		ui.callForm(ui.OrderFormService.SetPercentage(0.25, ui.quote))
	case "2":
		ui.callForm(ui.OrderFormService.SetPercentage(0.50, ui.quote))
	case "3":
		ui.callForm(ui.OrderFormService.SetPercentage(0.75, ui.quote))
	case "m":
		ui.callForm(ui.OrderFormService.SetMaxAmount(ui.quote))
	case "<Enter>":
		result := ui.OrderFormService.SubmitOrder(ui.quote)
		if result.Success {
			ui.appendLog(fmt.Sprintf("Committed %s %s %s @ %s (total %s)",
				result.Order.Side, result.Order.Amount, result.Order.Pair, result.Order.Price, result.Order.Total))
		} else {
			for _, message := range result.Errors {
				ui.appendLog("Rejected: " + message)
			}
		}
	}
	return false
}

func (ui *UserInterface) callForm(err error) {
	if err != nil {
		ui.appendLog(err.Error())
		helpers.Logger.Errorln("ui: " + err.Error())
	}
}

func (ui *UserInterface) appendLog(message string) {
	ui.logList = append(ui.logList, message)
	if len(ui.logList) > 50 {
		ui.logList = ui.logList[len(ui.logList)-50:]
	}
}

func (ui *UserInterface) UpdateUI() {
	quoteParagraph := widgets.NewParagraph()
	quoteParagraph.BorderStyle.Fg = termui.ColorYellow
	quoteParagraph.TitleStyle.Fg = termui.ColorYellow
	quoteParagraph.Block.Title = "Market " + ui.pair.ID
	quoteParagraph.Text = fmt.Sprintf("[Price: %s](fg:blue)\n", ui.pair.FormatPrice(ui.quote.Price))
	quoteParagraph.Text += fmt.Sprintf("High: %s\n", ui.pair.FormatPrice(ui.quote.High))
	quoteParagraph.Text += fmt.Sprintf("Low: %s\n", ui.pair.FormatPrice(ui.quote.Low))
	quoteParagraph.Text += fmt.Sprintf("Change: %.2f%%\n", ui.quote.ChangePct)
	quoteParagraph.Text += fmt.Sprintf("Updated: %s\n", ui.quote.UpdatedAt.Format("15:04:05"))
	quoteParagraph.SetRect(0, 0, 34, 7)

	bookList := widgets.NewList()
	bookList.Block.Title = "Order Book"
	snapshot, err := ui.BookService.Snapshot(ui.pair, ui.quote.Price, time.Now())
	if err != nil {
		helpers.Logger.Errorln("ui: " + err.Error())
	} else {
		rows := make([]string, 0, len(snapshot.Asks)+len(snapshot.Bids)+1)
		for i := len(snapshot.Asks) - 1; i >= 0; i-- {
			rows = append(rows, fmt.Sprintf("[%s  %s](fg:red)", snapshot.Asks[i].Price, snapshot.Asks[i].Amount))
		}
		rows = append(rows, fmt.Sprintf("[-- %s --](fg:blue)", ui.pair.FormatPrice(ui.quote.Price)))
		for _, bid := range snapshot.Bids {
			rows = append(rows, fmt.Sprintf("[%s  %s](fg:green)", bid.Price, bid.Amount))
		}
		bookList.Rows = rows
	}
	bookList.SetRect(34, 0, 68, 19)

	tradesList := widgets.NewList()
	tradesList.Block.Title = "Recent Trades"
	trades, err := ui.BookService.RecentTrades(ui.pair, ui.quote.Price, time.Now())
	if err != nil {
		helpers.Logger.Errorln("ui: " + err.Error())
	} else {
		rows := make([]string, 0, len(trades))
		for _, trade := range trades {
			color := "green"
			if trade.Side == models.SideTypeSell {
				color = "red"
			}
			rows = append(rows, fmt.Sprintf("[%s %s %s](fg:%s)",
				trade.Time.Format("15:04:05"), trade.Price, trade.Amount, color))
		}
		tradesList.Rows = rows
	}
	tradesList.SetRect(68, 0, 100, 19)

	draft := ui.OrderFormService.Draft()
	draftParagraph := widgets.NewParagraph()
	draftParagraph.Block.Title = "Order Draft"
	draftParagraph.Text = fmt.Sprintf("Side: %s\n", draft.Side)
	draftParagraph.Text += fmt.Sprintf("Type: %s\n", draft.Type)
	draftParagraph.Text += fmt.Sprintf("Amount: %s %s\n", draft.Amount, ui.pair.BaseSymbol)
	draftParagraph.Text += fmt.Sprintf("Price: %s %s\n", draft.Price, ui.pair.QuoteSymbol)
	draftParagraph.Text += fmt.Sprintf("Total: %s %s\n", draft.Total, ui.pair.QuoteSymbol)
	validation := ui.OrderFormService.ValidateOrder(ui.quote)
	for _, message := range validation.Errors {
		draftParagraph.Text += fmt.Sprintf("[%s](fg:red)\n", message)
	}
	draftParagraph.SetRect(0, 7, 34, 19)

	balanceParagraph := widgets.NewParagraph()
	balanceParagraph.Block.Title = "Balance"
	available, err := ui.AccountService.GetAvailableBalance(ui.pair.QuoteSymbol)
	if err != nil {
		helpers.Logger.Errorln("ui: " + err.Error())
	} else {
		balanceParagraph.Text = fmt.Sprintf("Available: %.2f %s\n", available, ui.pair.QuoteSymbol)
	}
	balanceParagraph.SetRect(100, 0, 132, 4)

	historyList := widgets.NewList()
	historyList.Block.Title = "Recent Orders"
	historyRows := []string{}
	for _, record := range ui.OrderFormService.History() {
		historyRows = append(historyRows, fmt.Sprintf("%s %s %s @ %s = %s",
			time.Unix(record.Time, 0).Format("15:04:05"), record.Side, record.Amount, record.Price, record.Total))
	}
	historyList.Rows = historyRows
	historyList.SetRect(100, 4, 132, 19)

	operationsList := widgets.NewList()
	operationsList.Block.Title = "Operations"
	operationsList.Rows = ui.logList
	operationsList.SetRect(0, 19, 100, 28)
	operationsList.ScrollBottom()

	priceSparkline := widgets.NewSparkline()
	priceSparkline.Data = ui.FeedService.RecentCloses(ui.pair.ID, 30)
	priceSparkline.LineColor = termui.ColorCyan
	sparklineGroup := widgets.NewSparklineGroup(priceSparkline)
	sparklineGroup.Title = "Price History"
	sparklineGroup.SetRect(100, 19, 132, 28)

	termui.Render(quoteParagraph, bookList, tradesList, draftParagraph, balanceParagraph, historyList, operationsList, sparklineGroup)
}
