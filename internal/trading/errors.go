package trading

import "errors"

var (
	ErrInvalidShares      = errors.New("Only accepts positive integers")
	ErrInvalidAmount      = errors.New("Amount must be a positive number")
	ErrInsufficientFunds  = errors.New("Insufficient funds")
	ErrInsufficientShares = errors.New("Not enough shares to sell")
)
