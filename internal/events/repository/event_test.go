package repository

import (
	"testing"

	mongotx "unispace/pkg/db/mongo"
)

func TestRepositoryHoldsTransactionManager(t *testing.T) {
	repo := &mongoEventRepository{
		txManager: mongotx.NewTransactionManager(nil),
	}
	if repo.txManager == nil {
		t.Fatal("transaction manager was not assigned")
	}
}
