package lcore_test

import (
	"github.com/usnistgov/parhisto/core/testenv"
)

var makeAR = testenv.MakeAR
