package ops

import (
	"gopkg.in/mgo.v2/bson"
)

// Codec decodes raw documents into the values handed to a ResultHandler and
// encodes values back into raw documents. A nil Codec on a cursor delivers
// raw documents unchanged.
type Codec interface {
	Decode(raw bson.Raw) (interface{}, error)
	Encode(doc interface{}) (bson.Raw, error)
}

// BSONCodec is a Codec that decodes documents into bson.D values.
var BSONCodec Codec = bsonCodec{}

type bsonCodec struct{}

func (bsonCodec) Decode(raw bson.Raw) (interface{}, error) {
	var doc bson.D
	if err := raw.Unmarshal(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (bsonCodec) Encode(doc interface{}) (bson.Raw, error) {
	data, err := bson.Marshal(doc)
	if err != nil {
		return bson.Raw{}, err
	}
	return bson.Raw{Kind: 0x03, Data: data}, nil
}
