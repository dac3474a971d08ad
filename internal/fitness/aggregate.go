package fitness

const (
	StepsDataType    = "com.google.step_count.delta"
	CaloriesDataType = "com.google.calories.expended"

	dayMillis = 86_400_000
)

type aggregateBy struct {
	DataTypeName string `json:"dataTypeName"`
}

type bucketByTime struct {
	DurationMillis int64 `json:"durationMillis"`
}

type aggregateRequest struct {
	AggregateBy     []aggregateBy `json:"aggregateBy"`
	BucketByTime    bucketByTime  `json:"bucketByTime"`
	StartTimeMillis int64         `json:"startTimeMillis"`
	EndTimeMillis   int64         `json:"endTimeMillis"`
}

func newAggregateRequest(dataType string, startMillis, endMillis int64) aggregateRequest {
	return aggregateRequest{
		AggregateBy:     []aggregateBy{{DataTypeName: dataType}},
		BucketByTime:    bucketByTime{DurationMillis: dayMillis},
		StartTimeMillis: startMillis,
		EndTimeMillis:   endMillis,
	}
}

type aggregateValue struct {
	IntVal *int64   `json:"intVal"`
	FpVal  *float64 `json:"fpVal"`
}

type aggregatePoint struct {
	Value []aggregateValue `json:"value"`
}

type aggregateDataset struct {
	Point []aggregatePoint `json:"point"`
}

type aggregateBucket struct {
	Dataset []aggregateDataset `json:"dataset"`
}

type aggregateResponse struct {
	Bucket []aggregateBucket `json:"bucket"`
}

// sum adds every numeric value in the response. points is the number of
// data points seen; zero means the provider had nothing to report.
func (r *aggregateResponse) sum() (total float64, points int) {
	for _, b := range r.Bucket {
		for _, ds := range b.Dataset {
			for _, p := range ds.Point {
				points++
				for _, v := range p.Value {
					switch {
					case v.IntVal != nil:
						total += float64(*v.IntVal)
					case v.FpVal != nil:
						total += *v.FpVal
					}
				}
			}
		}
	}
	return total, points
}
