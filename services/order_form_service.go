package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/sdcoffey/big"

	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/helpers"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/interfaces"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/models"
)

const (
	// TakerFeeRate is the fee applied when an order consumes synthetic
	// liquidity.
	TakerFeeRate = 0.0015

	// buySafetyMargin keeps max-sized buys 1% below the available balance
	// to absorb price drift between sizing and submission.
	buySafetyMargin = 0.99

	// historyLimit caps the recent-orders list.
	historyLimit = 10
)

// OrderFormService owns the single order draft being composed against one
// trading pair, validates and prices it, and keeps the capped history of
// committed orders. The latest market quote is passed into every call
// instead of being read from shared state, so a call always prices against
// exactly the snapshot its caller saw.
type OrderFormService struct {
	pair    models.TradingPair
	account interfaces.AccountService

	draft         models.OrderDraft
	history       []models.OrderRecord
	lastOrderTime time.Time
	mu            sync.Mutex
}

func NewOrderFormService(pair models.TradingPair, account interfaces.AccountService, quote models.MarketQuote) *OrderFormService {
	return &OrderFormService{
		pair:    pair,
		account: account,
		draft:   newDraft(pair, quote),
	}
}

func newDraft(pair models.TradingPair, quote models.MarketQuote) models.OrderDraft {
	return models.OrderDraft{
		Side:  models.SideTypeBuy,
		Type:  models.OrderTypeLimit,
		Price: pair.FormatPrice(quote.Price),
	}
}

// Draft returns a copy of the current draft.
func (ofs *OrderFormService) Draft() models.OrderDraft {
	ofs.mu.Lock()
	defer ofs.mu.Unlock()
	return ofs.draft
}

// Pair returns the pair the draft is composed against.
func (ofs *OrderFormService) Pair() models.TradingPair {
	ofs.mu.Lock()
	defer ofs.mu.Unlock()
	return ofs.pair
}

// History returns a copy of the committed orders, newest first.
func (ofs *OrderFormService) History() []models.OrderRecord {
	ofs.mu.Lock()
	defer ofs.mu.Unlock()
	history := make([]models.OrderRecord, len(ofs.history))
	copy(history, ofs.history)
	return history
}

// LastOrderTime reports when the most recent order was committed. Zero
// until the first successful submit.
func (ofs *OrderFormService) LastOrderTime() time.Time {
	ofs.mu.Lock()
	defer ofs.mu.Unlock()
	return ofs.lastOrderTime
}

// SetPair switches the draft to another instrument. Side and order type
// survive the switch, amount and total are cleared and the price field is
// reseeded from the new pair's quote.
func (ofs *OrderFormService) SetPair(pair models.TradingPair, quote models.MarketQuote) {
	ofs.mu.Lock()
	defer ofs.mu.Unlock()
	side, orderType := ofs.draft.Side, ofs.draft.Type
	ofs.pair = pair
	ofs.draft = newDraft(pair, quote)
	ofs.draft.Side = side
	ofs.draft.Type = orderType
}

// UpdateField sets one draft field. Changes to amount, price or orderType
// synchronously recompute the total before the call returns.
func (ofs *OrderFormService) UpdateField(field models.DraftField, value string, quote models.MarketQuote) error {
	ofs.mu.Lock()
	defer ofs.mu.Unlock()

	switch field {
	case models.DraftFieldSide:
		side := models.SideType(value)
		if side != models.SideTypeBuy && side != models.SideTypeSell {
			return fmt.Errorf("%w: unknown order side %q", ErrInvalidParameter, value)
		}
		ofs.draft.Side = side
	case models.DraftFieldOrderType:
		orderType := models.OrderType(value)
		if orderType != models.OrderTypeLimit && orderType != models.OrderTypeMarket {
			return fmt.Errorf("%w: unknown order type %q", ErrInvalidParameter, value)
		}
		ofs.draft.Type = orderType
		ofs.draft = recalculateTotal(ofs.draft, quote)
	case models.DraftFieldAmount:
		ofs.draft.Amount = value
		ofs.draft = recalculateTotal(ofs.draft, quote)
	case models.DraftFieldPrice:
		ofs.draft.Price = value
		ofs.draft = recalculateTotal(ofs.draft, quote)
	default:
		return fmt.Errorf("%w: unknown draft field %q", ErrInvalidParameter, field)
	}
	return nil
}

// SetMaxAmount sizes the draft to the largest submittable amount. Buys are
// bounded by the available balance less the safety margin, sells by the
// pair maximum (no position feed exists in this client-local engine).
func (ofs *OrderFormService) SetMaxAmount(quote models.MarketQuote) error {
	ofs.mu.Lock()
	defer ofs.mu.Unlock()

	amount := 0.0
	if ofs.draft.Side == models.SideTypeSell {
		amount = ofs.pair.MaxAmount
	} else {
		balance, err := ofs.account.GetAvailableBalance(ofs.pair.QuoteSymbol)
		if err != nil {
			return fmt.Errorf("max amount: %w", err)
		}
		price := effectivePrice(ofs.draft, quote)
		if price <= 0 {
			return fmt.Errorf("%w: no usable price for max amount", ErrInvalidParameter)
		}
		amount = helpers.Min(ofs.pair.MaxAmount, balance*buySafetyMargin/price)
	}

	ofs.draft.Amount = ofs.pair.FormatAmount(amount)
	ofs.draft = recalculateTotal(ofs.draft, quote)
	return nil
}

// SetPercentage sizes the draft to a fraction of the affordable maximum,
// without the safety margin, capped at the pair maximum.
func (ofs *OrderFormService) SetPercentage(fraction float64, quote models.MarketQuote) error {
	if fraction <= 0 || fraction > 1 {
		return fmt.Errorf("%w: fraction must be in (0,1], got %f", ErrInvalidParameter, fraction)
	}

	ofs.mu.Lock()
	defer ofs.mu.Unlock()

	amount := 0.0
	if ofs.draft.Side == models.SideTypeSell {
		amount = ofs.pair.MaxAmount * fraction
	} else {
		balance, err := ofs.account.GetAvailableBalance(ofs.pair.QuoteSymbol)
		if err != nil {
			return fmt.Errorf("percentage amount: %w", err)
		}
		price := effectivePrice(ofs.draft, quote)
		if price <= 0 {
			return fmt.Errorf("%w: no usable price for percentage amount", ErrInvalidParameter)
		}
		amount = helpers.Min(ofs.pair.MaxAmount, balance*fraction/price)
	}

	ofs.draft.Amount = ofs.pair.FormatAmount(amount)
	ofs.draft = recalculateTotal(ofs.draft, quote)
	return nil
}

// ValidateOrder runs every check and collects one message per violation.
// It never short-circuits, so simultaneous problems all surface at once,
// and it has no side effects: validating twice yields identical results.
func (ofs *OrderFormService) ValidateOrder(quote models.MarketQuote) models.ValidationResult {
	ofs.mu.Lock()
	defer ofs.mu.Unlock()
	return ofs.validateLocked(quote)
}

func (ofs *OrderFormService) validateLocked(quote models.MarketQuote) models.ValidationResult {
	var validationErrors []string

	amount, amountOk := helpers.ParseDecimal(ofs.draft.Amount)
	if ofs.draft.Amount == "" {
		validationErrors = append(validationErrors, "Amount is required")
	} else if !amountOk {
		validationErrors = append(validationErrors, "Amount must be a valid number")
	} else if amount < ofs.pair.MinAmount {
		validationErrors = append(validationErrors,
			fmt.Sprintf("Minimum amount is %s %s", ofs.pair.FormatAmount(ofs.pair.MinAmount), ofs.pair.BaseSymbol))
	} else if amount > ofs.pair.MaxAmount {
		validationErrors = append(validationErrors,
			fmt.Sprintf("Maximum amount is %s %s", ofs.pair.FormatAmount(ofs.pair.MaxAmount), ofs.pair.BaseSymbol))
	}

	if ofs.draft.Type == models.OrderTypeLimit {
		price, priceOk := helpers.ParseDecimal(ofs.draft.Price)
		if ofs.draft.Price == "" {
			validationErrors = append(validationErrors, "Price is required for limit orders")
		} else if !priceOk || price <= 0 {
			validationErrors = append(validationErrors, "Price must be greater than zero")
		}
	}

	if total, totalOk := helpers.ParseDecimal(ofs.draft.Total); totalOk {
		balance, err := ofs.account.GetAvailableBalance(ofs.pair.QuoteSymbol)
		if err != nil {
			helpers.Logger.Errorln("validate: balance lookup failed: " + err.Error())
			validationErrors = append(validationErrors, "Balance is unavailable")
		} else if big.NewDecimal(total).GT(big.NewDecimal(balance)) {
			validationErrors = append(validationErrors, "Insufficient balance")
		}
	}

	return models.ValidationResult{
		IsValid: len(validationErrors) == 0,
		Errors:  validationErrors,
	}
}

// CalculateFee is a pure helper: fee = total x taker rate.
func (ofs *OrderFormService) CalculateFee(total big.Decimal) models.FeeBreakdown {
	fee := total.Frac(TakerFeeRate)
	return models.FeeBreakdown{
		Fee:          fee,
		FeePct:       big.NewDecimal(TakerFeeRate * 100),
		TotalWithFee: total.Add(fee),
	}
}

// SubmitOrder re-validates the draft and, when valid, freezes it into an
// OrderRecord, prepends it to the history (evicting past the cap), stamps
// the order time and resets amount/total. History is touched only after
// validation fully passes, so no partial commit is possible.
func (ofs *OrderFormService) SubmitOrder(quote models.MarketQuote) models.SubmitResult {
	ofs.mu.Lock()
	defer ofs.mu.Unlock()

	// reprice against the submit-time quote: a market order edited under
	// an older snapshot must commit with total = amount x current price
	ofs.draft = recalculateTotal(ofs.draft, quote)

	validation := ofs.validateLocked(quote)
	if !validation.IsValid {
		return models.SubmitResult{Success: false, Errors: validation.Errors}
	}

	amount, _ := helpers.ParseDecimal(ofs.draft.Amount)
	price := effectivePrice(ofs.draft, quote)
	totalValue, totalOk := helpers.ParseDecimal(ofs.draft.Total)
	if !totalOk {
		return models.SubmitResult{Success: false, Errors: []string{"Total could not be computed"}}
	}
	total := big.NewDecimal(totalValue)
	feeBreakdown := ofs.CalculateFee(total)

	now := time.Now()
	record := models.OrderRecord{
		Pair:         ofs.pair.ID,
		Side:         ofs.draft.Side,
		Type:         ofs.draft.Type,
		Amount:       ofs.pair.FormatAmount(amount),
		Price:        ofs.pair.FormatPrice(price),
		Total:        total.FormattedString(2),
		Fee:          feeBreakdown.Fee.FormattedString(2),
		TotalWithFee: feeBreakdown.TotalWithFee.FormattedString(2),
		Time:         now.Unix(),
	}

	if err := ofs.account.PersistOrder(record); err != nil {
		helpers.Logger.Warnln("order persistence failed: " + err.Error())
	}

	ofs.history = append([]models.OrderRecord{record}, ofs.history...)
	if len(ofs.history) > historyLimit {
		ofs.history = ofs.history[:historyLimit]
	}
	ofs.lastOrderTime = now

	ofs.draft.Amount = ""
	ofs.draft.Total = ""

	return models.SubmitResult{Success: true, Order: &record}
}

// recalculateTotal is the pure draft transition applied after every edit:
// total = amount x effective price, rounded to two decimals, or empty when
// either operand is missing or unparseable.
func recalculateTotal(draft models.OrderDraft, quote models.MarketQuote) models.OrderDraft {
	amount, amountOk := helpers.ParseDecimal(draft.Amount)
	if !amountOk {
		draft.Total = ""
		return draft
	}

	price := effectivePrice(draft, quote)
	if price <= 0 {
		draft.Total = ""
		return draft
	}

	draft.Total = big.NewDecimal(amount).Mul(big.NewDecimal(price)).FormattedString(2)
	return draft
}

// effectivePrice resolves the price an order would execute at: the limit
// price for limit orders, the current reference price for market orders.
func effectivePrice(draft models.OrderDraft, quote models.MarketQuote) float64 {
	if draft.Type == models.OrderTypeLimit {
		price, ok := helpers.ParseDecimal(draft.Price)
		if !ok {
			return 0
		}
		return price
	}
	return quote.Price
}
