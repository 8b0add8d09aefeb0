package memarena

import "github.com/pkg/errors"

// PowerOfTwoError is the error returned from CheckPow2 or other methods if the number being tested is not a power of two
var PowerOfTwoError error = errors.New("number must be a power of two")

// NotPositiveError is the error returned from CheckPositive when a size or capacity argument is zero or negative
var NotPositiveError error = errors.New("number must be greater than zero")
