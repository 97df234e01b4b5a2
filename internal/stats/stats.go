package stats

import (
	"lobby/internal/models"

	"github.com/shopspring/decimal"
)

type Summary struct {
	TotalBets      int64           `json:"total_bets"`
	TotalWins      int64           `json:"total_wins"`
	TotalLosses    int64           `json:"total_losses"`
	TotalBetAmount int64           `json:"total_bet_amount"`
	TotalWinAmount int64           `json:"total_win_amount"`
	NetProfit      int64           `json:"net_profit"`
	WinRate        decimal.Decimal `json:"win_rate"`
	BiggestWin     int64           `json:"biggest_win"`
}

func Summarize(rows []models.Transaction) Summary {
	var s Summary
	for _, row := range rows {
		switch row.Kind {
		case models.KindBet:
			s.TotalBets++
			s.TotalBetAmount += -row.Amount
		case models.KindWin:
			s.TotalWins++
			s.TotalWinAmount += row.Amount
			if row.Amount > s.BiggestWin {
				s.BiggestWin = row.Amount
			}
		}
	}
	s.TotalLosses = max(s.TotalBets-s.TotalWins, 0)
	s.NetProfit = s.TotalWinAmount - s.TotalBetAmount
	s.WinRate = decimal.Zero
	if s.TotalBets > 0 {
		s.WinRate = decimal.NewFromInt(s.TotalWins).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(s.TotalBets)).
			Round(2)
	}
	return s
}
