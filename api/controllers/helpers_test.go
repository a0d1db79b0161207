package controllers

import (
	"testing"

	"github.com/angelmondragon/firstcredit-backend/internal/credit"
	"github.com/angelmondragon/firstcredit-backend/pkg/enums"
)

func loanRequest(t *testing.T) credit.NewRequestInput {
	t.Helper()
	return credit.NewRequestInput{
		Kind:             enums.RequestKindLoan,
		Name:             "Concert ticket",
		Principal:        9000,
		InstallmentWeeks: 3,
		Reason:           "favourite band",
	}
}
