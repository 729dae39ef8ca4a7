package storage

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
)

func TestIsPhoneConflict(t *testing.T) {
	phoneDup := &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry '+447000000000' for key 'customers.idx_phone_number'",
	}
	assert.True(t, isPhoneConflict(phoneDup))
	assert.True(t, isPhoneConflict(fmt.Errorf("failed to save customer: %w", phoneDup)))
}

func TestIsPhoneConflictIgnoresPrimaryKeyCollision(t *testing.T) {
	idDup := &mysql.MySQLError{
		Number:  1062,
		Message: "Duplicate entry 'b1f3...' for key 'customers.PRIMARY'",
	}
	assert.False(t, isPhoneConflict(idDup))
}

func TestIsPhoneConflictIgnoresOtherErrors(t *testing.T) {
	deadlock := &mysql.MySQLError{Number: 1213, Message: "Deadlock found when trying to get lock"}
	assert.False(t, isPhoneConflict(deadlock))
	assert.False(t, isPhoneConflict(nil))
}
