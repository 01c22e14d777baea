package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified name of the dashboard service.
const ServiceName = "feedback.v1.FeedbackMetrics"

const (
	MethodUploadFeedback       = "/" + ServiceName + "/UploadFeedback"
	MethodListAnalyses         = "/" + ServiceName + "/ListAnalyses"
	MethodDetectShape          = "/" + ServiceName + "/DetectShape"
	MethodNormalizeAspects     = "/" + ServiceName + "/NormalizeAspects"
	MethodNormalizePoints      = "/" + ServiceName + "/NormalizePoints"
	MethodGetAspectComparison  = "/" + ServiceName + "/GetAspectComparison"
	MethodGetPointGroups       = "/" + ServiceName + "/GetPointGroups"
	MethodGetAspectInsights    = "/" + ServiceName + "/GetAspectInsights"
	MethodGetSessionInsights   = "/" + ServiceName + "/GetSessionInsights"
	MethodGetMarketingInsights = "/" + ServiceName + "/GetMarketingInsights"
)

// FeedbackMetricsServer is the server API of the dashboard service. Requests
// and responses are google.protobuf.Struct messages.
type FeedbackMetricsServer interface {
	UploadFeedback(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListAnalyses(context.Context, *structpb.Struct) (*structpb.Struct, error)
	DetectShape(context.Context, *structpb.Struct) (*structpb.Struct, error)
	NormalizeAspects(context.Context, *structpb.Struct) (*structpb.Struct, error)
	NormalizePoints(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAspectComparison(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPointGroups(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetAspectInsights(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetSessionInsights(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMarketingInsights(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structMethod func(FeedbackMetricsServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call structMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(FeedbackMetricsServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(FeedbackMetricsServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var FeedbackMetricsServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*FeedbackMetricsServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "UploadFeedback", Handler: unaryHandler(MethodUploadFeedback, FeedbackMetricsServer.UploadFeedback)},
		{MethodName: "ListAnalyses", Handler: unaryHandler(MethodListAnalyses, FeedbackMetricsServer.ListAnalyses)},
		{MethodName: "DetectShape", Handler: unaryHandler(MethodDetectShape, FeedbackMetricsServer.DetectShape)},
		{MethodName: "NormalizeAspects", Handler: unaryHandler(MethodNormalizeAspects, FeedbackMetricsServer.NormalizeAspects)},
		{MethodName: "NormalizePoints", Handler: unaryHandler(MethodNormalizePoints, FeedbackMetricsServer.NormalizePoints)},
		{MethodName: "GetAspectComparison", Handler: unaryHandler(MethodGetAspectComparison, FeedbackMetricsServer.GetAspectComparison)},
		{MethodName: "GetPointGroups", Handler: unaryHandler(MethodGetPointGroups, FeedbackMetricsServer.GetPointGroups)},
		{MethodName: "GetAspectInsights", Handler: unaryHandler(MethodGetAspectInsights, FeedbackMetricsServer.GetAspectInsights)},
		{MethodName: "GetSessionInsights", Handler: unaryHandler(MethodGetSessionInsights, FeedbackMetricsServer.GetSessionInsights)},
		{MethodName: "GetMarketingInsights", Handler: unaryHandler(MethodGetMarketingInsights, FeedbackMetricsServer.GetMarketingInsights)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "feedback/v1/feedback_metrics.proto",
}

// RegisterFeedbackMetricsServer registers srv on s.
func RegisterFeedbackMetricsServer(s grpc.ServiceRegistrar, srv FeedbackMetricsServer) {
	s.RegisterService(&FeedbackMetricsServiceDesc, srv)
}

// FeedbackMetricsClient calls the dashboard service over a client connection.
type FeedbackMetricsClient struct {
	cc grpc.ClientConnInterface
}

func NewFeedbackMetricsClient(cc grpc.ClientConnInterface) *FeedbackMetricsClient {
	return &FeedbackMetricsClient{cc: cc}
}

// Call invokes one of the Method* endpoints with a map request.
func (c *FeedbackMetricsClient) Call(ctx context.Context, method string, req map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}
