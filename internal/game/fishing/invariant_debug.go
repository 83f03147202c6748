//go:build fishingdebug

package fishing

const assertInvariants = true
