package metrics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwTypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
)

const StackDimension = "Stack"

var ErrPutMetrics = errors.New("failed to publish metrics")

type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, input *cloudwatch.PutMetricDataInput, opts ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Publisher writes count metrics to one CloudWatch namespace
type Publisher struct {
	client    PutMetricDataAPI
	namespace string
	stackName string
	now       func() time.Time
}

func NewPublisher(client PutMetricDataAPI, namespace, stackName string) *Publisher {
	return &Publisher{
		client:    client,
		namespace: namespace,
		stackName: stackName,
		now:       time.Now,
	}
}

// PublishCounts sends every value as a Count datum in a single request,
// ordered by metric name
func (p *Publisher) PublishCounts(ctx context.Context, counts map[string]float64) error {
	if len(counts) == 0 {
		return nil
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	var dimensions []cwTypes.Dimension
	if p.stackName != "" {
		dimensions = []cwTypes.Dimension{
			{Name: aws.String(StackDimension), Value: aws.String(p.stackName)},
		}
	}

	timestamp := p.now()
	data := make([]cwTypes.MetricDatum, 0, len(names))
	for _, name := range names {
		data = append(data, cwTypes.MetricDatum{
			MetricName: aws.String(name),
			Dimensions: dimensions,
			Timestamp:  aws.Time(timestamp),
			Unit:       cwTypes.StandardUnitCount,
			Value:      aws.Float64(counts[name]),
		})
	}

	_, err := p.client.PutMetricData(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(p.namespace),
		MetricData: data,
	})
	if err != nil {
		return fmt.Errorf("%w: namespace=%s cause=%w", ErrPutMetrics, p.namespace, err)
	}
	return nil
}
