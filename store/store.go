// Package store persists quantizer snapshots by session id.
package store

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/jsphweid/quantdex/constants"
	"github.com/jsphweid/quantdex/model"
)

type Store interface {
	Save(id string, s model.Snapshot) error
	// Load fails with an ftag.NotFound error for unknown ids.
	Load(id string) (model.Snapshot, error)
	Delete(id string) error
	List() ([]string, error)
}

// FromEnv picks DynamoDB when an endpoint is configured and the state
// directory otherwise.
func FromEnv() (Store, error) {
	if endpoint := constants.GetDynamoEndpoint(); endpoint != "" {
		s, err := NewDynamo(endpoint, constants.GetDynamoRegion(), constants.GetDynamoTable())
		if err != nil {
			return nil, fault.Wrap(err, fmsg.With("could not set up dynamodb store"))
		}
		return s, nil
	}
	return NewFile(constants.GetStateDir())
}
