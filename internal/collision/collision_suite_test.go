package collision_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCollision(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Collision Suite")
}
