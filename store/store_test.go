package store

import (
	"testing"

	"github.com/Southclaws/fault/ftag"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/quantdex/model"
	"github.com/stretchr/testify/assert"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
}

func newFakeDynamo() *fakeDynamo {
	return &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) GetItem(in *dynamodb.GetItemInput) (*dynamodb.GetItemOutput, error) {
	return &dynamodb.GetItemOutput{Item: f.items[*in.Key["PK"].S]}, nil
}

func (f *fakeDynamo) DeleteItem(in *dynamodb.DeleteItemInput) (*dynamodb.DeleteItemOutput, error) {
	delete(f.items, *in.Key["PK"].S)
	return &dynamodb.DeleteItemOutput{}, nil
}

func (f *fakeDynamo) ScanPages(in *dynamodb.ScanInput, fn func(*dynamodb.ScanOutput, bool) bool) error {
	var page dynamodb.ScanOutput
	for pk := range f.items {
		page.Items = append(page.Items, map[string]*dynamodb.AttributeValue{"PK": {S: aws.String(pk)}})
	}
	fn(&page, true)
	return nil
}

func snapshot() model.Snapshot {
	return model.Snapshot{
		Events: []model.NoteEvent{{PitchClass: 4, Octave: 1, Interval: 0, Duration: 0.5}, {PitchClass: 7, Interval: 3, Duration: 1}},
		Head:   2,
		Params: model.Params{PitchCount: 3, Window: 16, IntervalMode: model.IntervalMost},
	}
}

func exercise(t *testing.T, s Store) {
	assert := assert.New(t)

	_, err := s.Load("nope")
	assert.Equal(ftag.NotFound, ftag.Get(err))

	assert.NoError(s.Save("b", snapshot()))
	assert.NoError(s.Save("a", snapshot()))
	got, err := s.Load("b")
	assert.NoError(err)
	assert.Equal(snapshot(), got)

	ids, err := s.List()
	assert.NoError(err)
	assert.Equal([]string{"a", "b"}, ids)

	assert.NoError(s.Delete("a"))
	ids, _ = s.List()
	assert.Equal([]string{"b"}, ids)

	err = s.Save("../escape", snapshot())
	assert.Equal(ftag.InvalidArgument, ftag.Get(err))
}

func TestFileStore(t *testing.T) {
	s, err := NewFile(t.TempDir())
	assert.NoError(t, err)
	exercise(t, s)

	err = s.Delete("a")
	assert.Equal(t, ftag.NotFound, ftag.Get(err))
}

func TestDynamoStore(t *testing.T) {
	fake := newFakeDynamo()
	exercise(t, &Dynamo{client: fake, table: "quantdex-sessions"})
	assert.NotNil(t, fake.items["b"]["Snapshot"].B)
}

func TestFromEnvDefaultsToFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("QUANTDEX_DYNAMO_ENDPOINT", "")
	t.Setenv("QUANTDEX_STATE_DIR", dir)
	s, err := FromEnv()
	assert.NoError(t, err)
	assert.IsType(t, &File{}, s)
}
