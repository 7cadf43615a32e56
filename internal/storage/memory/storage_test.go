package memory

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/rconstore/internal/storage"
	"github.com/mcoot/rconstore/internal/storage/storagetest"
)

func TestStorageSuite(t *testing.T) {
	suite.Run(t, &storagetest.Suite{
		New: func(t *testing.T) storage.Storage { return New() },
	})
}
