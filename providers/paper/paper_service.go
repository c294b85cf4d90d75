package paper

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/helpers"
	"github.com/salbajnr-iv/bitpandaproapp.com-sub000/models"
)

const defaultAvailableBalance = 10000.0

// PaperService is the client-local stand-in for the account backend: a
// fixed available balance and a log-only order sink.
type PaperService struct {
	availableBalance float64
}

func NewPaperService() *PaperService {
	availableBalance := defaultAvailableBalance
	if env := os.Getenv("availableBalance"); env != "" {
		parsed, err := strconv.ParseFloat(env, 64)
		if err != nil || parsed < 0 {
			helpers.Logger.Warnln("ignoring invalid availableBalance env value: " + env)
		} else {
			availableBalance = parsed
		}
	}
	return &PaperService{
		availableBalance: availableBalance,
	}
}

func init() {
	cwd, _ := os.Getwd()
	_ = godotenv.Load(cwd + "/conf.env")
}

func (paperService *PaperService) GetAvailableBalance(asset string) (float64, error) {
	return paperService.availableBalance, nil
}

func (paperService *PaperService) GetTotalBalance(asset string) (float64, error) {
	return paperService.availableBalance, nil
}

func (paperService *PaperService) PersistOrder(record models.OrderRecord) error {
	helpers.Logger.Infoln("order committed: " + string(record.Side) + " " + record.Amount + " " +
		record.Pair + " @ " + record.Price + " (total " + record.Total + ", fee " + record.Fee + ")")
	return nil
}
