package store

import (
	"sort"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/quantdex/model"
	"github.com/jsphweid/quantdex/util"
)

// Dynamo keeps gob encoded snapshots in a table keyed by PK.
type Dynamo struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func NewDynamo(endpoint, region, table string) (*Dynamo, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("could not create a new DynamoDB session"))
	}
	return &Dynamo{client: dynamodb.New(sess), table: table}, nil
}

func key(id string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK": {S: aws.String(id)},
	}
}

func (d *Dynamo) Save(id string, s model.Snapshot) error {
	if err := validID(id); err != nil {
		return err
	}
	b, err := util.EncodeBinary(s)
	if err != nil {
		return err
	}
	item := key(id)
	item["Snapshot"] = &dynamodb.AttributeValue{B: b}
	_, err = d.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(d.table),
		Item:      item,
	})
	if err != nil {
		return fault.Wrap(err, fmsg.With("error from DynamoDB saving "+id))
	}
	return nil
}

func (d *Dynamo) Load(id string) (model.Snapshot, error) {
	if err := validID(id); err != nil {
		return model.Snapshot{}, err
	}
	res, err := d.client.GetItem(&dynamodb.GetItemInput{
		TableName: aws.String(d.table),
		Key:       key(id),
	})
	if err != nil {
		return model.Snapshot{}, fault.Wrap(err, fmsg.With("error from DynamoDB loading "+id))
	}
	v, ok := res.Item["Snapshot"]
	if !ok || v.B == nil {
		return model.Snapshot{}, fault.Wrap(fault.New("no session "+id), ftag.With(ftag.NotFound))
	}
	return util.DecodeBinary[model.Snapshot](v.B)
}

func (d *Dynamo) Delete(id string) error {
	if err := validID(id); err != nil {
		return err
	}
	_, err := d.client.DeleteItem(&dynamodb.DeleteItemInput{
		TableName: aws.String(d.table),
		Key:       key(id),
	})
	if err != nil {
		return fault.Wrap(err, fmsg.With("error from DynamoDB deleting "+id))
	}
	return nil
}

func (d *Dynamo) List() ([]string, error) {
	var res []string
	err := d.client.ScanPages(&dynamodb.ScanInput{
		TableName:            aws.String(d.table),
		ProjectionExpression: aws.String("PK"),
	}, func(page *dynamodb.ScanOutput, lastPage bool) bool {
		for _, item := range page.Items {
			if pk, ok := item["PK"]; ok && pk.S != nil {
				res = append(res, *pk.S)
			}
		}
		return true
	})
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("error from DynamoDB listing sessions"))
	}
	sort.Strings(res)
	return res, nil
}
