/*
 * Copyright (c) 2024, 2026 Oracle and/or its affiliates.
 * Licensed under the Universal Permissive License v 1.0 as shown at
 * https://oss.oracle.com/licenses/upl.
 */

package api

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "gridcache.NamedCacheService"

// NamedCacheServiceClient is the client API for the NamedCacheService.
type NamedCacheServiceClient interface {
	Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*OptionalValue, error)
	Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*BytesValue, error)
	PutIfAbsent(ctx context.Context, in *PutIfAbsentRequest, opts ...grpc.CallOption) (*BytesValue, error)
	PutAll(ctx context.Context, in *PutAllRequest, opts ...grpc.CallOption) (*Empty, error)
	Remove(ctx context.Context, in *RemoveRequest, opts ...grpc.CallOption) (*BytesValue, error)
	RemoveMapping(ctx context.Context, in *RemoveMappingRequest, opts ...grpc.CallOption) (*BoolValue, error)
	Replace(ctx context.Context, in *ReplaceRequest, opts ...grpc.CallOption) (*BytesValue, error)
	ReplaceMapping(ctx context.Context, in *ReplaceMappingRequest, opts ...grpc.CallOption) (*BoolValue, error)
	ContainsKey(ctx context.Context, in *ContainsKeyRequest, opts ...grpc.CallOption) (*BoolValue, error)
	ContainsValue(ctx context.Context, in *ContainsValueRequest, opts ...grpc.CallOption) (*BoolValue, error)
	ContainsEntry(ctx context.Context, in *ContainsEntryRequest, opts ...grpc.CallOption) (*BoolValue, error)
	IsEmpty(ctx context.Context, in *IsEmptyRequest, opts ...grpc.CallOption) (*BoolValue, error)
	IsReady(ctx context.Context, in *IsReadyRequest, opts ...grpc.CallOption) (*BoolValue, error)
	Size(ctx context.Context, in *SizeRequest, opts ...grpc.CallOption) (*Int32Value, error)
	Clear(ctx context.Context, in *ClearRequest, opts ...grpc.CallOption) (*Empty, error)
	Truncate(ctx context.Context, in *TruncateRequest, opts ...grpc.CallOption) (*Empty, error)
	Destroy(ctx context.Context, in *DestroyRequest, opts ...grpc.CallOption) (*Empty, error)
	AddIndex(ctx context.Context, in *AddIndexRequest, opts ...grpc.CallOption) (*Empty, error)
	RemoveIndex(ctx context.Context, in *RemoveIndexRequest, opts ...grpc.CallOption) (*Empty, error)
	Aggregate(ctx context.Context, in *AggregateRequest, opts ...grpc.CallOption) (*BytesValue, error)
	Invoke(ctx context.Context, in *InvokeRequest, opts ...grpc.CallOption) (*BytesValue, error)
	GetAll(ctx context.Context, in *GetAllRequest, opts ...grpc.CallOption) (NamedCacheService_GetAllClient, error)
	InvokeAll(ctx context.Context, in *InvokeAllRequest, opts ...grpc.CallOption) (NamedCacheService_InvokeAllClient, error)
	KeySet(ctx context.Context, in *KeySetRequest, opts ...grpc.CallOption) (NamedCacheService_KeySetClient, error)
	EntrySet(ctx context.Context, in *EntrySetRequest, opts ...grpc.CallOption) (NamedCacheService_EntrySetClient, error)
	Values(ctx context.Context, in *ValuesRequest, opts ...grpc.CallOption) (NamedCacheService_ValuesClient, error)
	NextKeySetPage(ctx context.Context, in *PageRequest, opts ...grpc.CallOption) (NamedCacheService_NextKeySetPageClient, error)
	NextEntrySetPage(ctx context.Context, in *PageRequest, opts ...grpc.CallOption) (NamedCacheService_NextEntrySetPageClient, error)
	Events(ctx context.Context, opts ...grpc.CallOption) (NamedCacheService_EventsClient, error)
}

type namedCacheServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewNamedCacheServiceClient returns a NamedCacheServiceClient bound to the
// given connection.
func NewNamedCacheServiceClient(cc grpc.ClientConnInterface) NamedCacheServiceClient {
	return &namedCacheServiceClient{cc}
}

func invoke[Out any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Out, error) {
	out := new(Out)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *namedCacheServiceClient) Get(ctx context.Context, in *GetRequest, opts ...grpc.CallOption) (*OptionalValue, error) {
	return invoke[OptionalValue](ctx, c.cc, "/"+ServiceName+"/Get", in, opts)
}

func (c *namedCacheServiceClient) Put(ctx context.Context, in *PutRequest, opts ...grpc.CallOption) (*BytesValue, error) {
	return invoke[BytesValue](ctx, c.cc, "/"+ServiceName+"/Put", in, opts)
}

func (c *namedCacheServiceClient) PutIfAbsent(ctx context.Context, in *PutIfAbsentRequest, opts ...grpc.CallOption) (*BytesValue, error) {
	return invoke[BytesValue](ctx, c.cc, "/"+ServiceName+"/PutIfAbsent", in, opts)
}

func (c *namedCacheServiceClient) PutAll(ctx context.Context, in *PutAllRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "/"+ServiceName+"/PutAll", in, opts)
}

func (c *namedCacheServiceClient) Remove(ctx context.Context, in *RemoveRequest, opts ...grpc.CallOption) (*BytesValue, error) {
	return invoke[BytesValue](ctx, c.cc, "/"+ServiceName+"/Remove", in, opts)
}

func (c *namedCacheServiceClient) RemoveMapping(ctx context.Context, in *RemoveMappingRequest, opts ...grpc.CallOption) (*BoolValue, error) {
	return invoke[BoolValue](ctx, c.cc, "/"+ServiceName+"/RemoveMapping", in, opts)
}

func (c *namedCacheServiceClient) Replace(ctx context.Context, in *ReplaceRequest, opts ...grpc.CallOption) (*BytesValue, error) {
	return invoke[BytesValue](ctx, c.cc, "/"+ServiceName+"/Replace", in, opts)
}

func (c *namedCacheServiceClient) ReplaceMapping(ctx context.Context, in *ReplaceMappingRequest, opts ...grpc.CallOption) (*BoolValue, error) {
	return invoke[BoolValue](ctx, c.cc, "/"+ServiceName+"/ReplaceMapping", in, opts)
}

func (c *namedCacheServiceClient) ContainsKey(ctx context.Context, in *ContainsKeyRequest, opts ...grpc.CallOption) (*BoolValue, error) {
	return invoke[BoolValue](ctx, c.cc, "/"+ServiceName+"/ContainsKey", in, opts)
}

func (c *namedCacheServiceClient) ContainsValue(ctx context.Context, in *ContainsValueRequest, opts ...grpc.CallOption) (*BoolValue, error) {
	return invoke[BoolValue](ctx, c.cc, "/"+ServiceName+"/ContainsValue", in, opts)
}

func (c *namedCacheServiceClient) ContainsEntry(ctx context.Context, in *ContainsEntryRequest, opts ...grpc.CallOption) (*BoolValue, error) {
	return invoke[BoolValue](ctx, c.cc, "/"+ServiceName+"/ContainsEntry", in, opts)
}

func (c *namedCacheServiceClient) IsEmpty(ctx context.Context, in *IsEmptyRequest, opts ...grpc.CallOption) (*BoolValue, error) {
	return invoke[BoolValue](ctx, c.cc, "/"+ServiceName+"/IsEmpty", in, opts)
}

func (c *namedCacheServiceClient) IsReady(ctx context.Context, in *IsReadyRequest, opts ...grpc.CallOption) (*BoolValue, error) {
	return invoke[BoolValue](ctx, c.cc, "/"+ServiceName+"/IsReady", in, opts)
}

func (c *namedCacheServiceClient) Size(ctx context.Context, in *SizeRequest, opts ...grpc.CallOption) (*Int32Value, error) {
	return invoke[Int32Value](ctx, c.cc, "/"+ServiceName+"/Size", in, opts)
}

func (c *namedCacheServiceClient) Clear(ctx context.Context, in *ClearRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "/"+ServiceName+"/Clear", in, opts)
}

func (c *namedCacheServiceClient) Truncate(ctx context.Context, in *TruncateRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "/"+ServiceName+"/Truncate", in, opts)
}

func (c *namedCacheServiceClient) Destroy(ctx context.Context, in *DestroyRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "/"+ServiceName+"/Destroy", in, opts)
}

func (c *namedCacheServiceClient) AddIndex(ctx context.Context, in *AddIndexRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "/"+ServiceName+"/AddIndex", in, opts)
}

func (c *namedCacheServiceClient) RemoveIndex(ctx context.Context, in *RemoveIndexRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, "/"+ServiceName+"/RemoveIndex", in, opts)
}

func (c *namedCacheServiceClient) Aggregate(ctx context.Context, in *AggregateRequest, opts ...grpc.CallOption) (*BytesValue, error) {
	return invoke[BytesValue](ctx, c.cc, "/"+ServiceName+"/Aggregate", in, opts)
}

func (c *namedCacheServiceClient) Invoke(ctx context.Context, in *InvokeRequest, opts ...grpc.CallOption) (*BytesValue, error) {
	return invoke[BytesValue](ctx, c.cc, "/"+ServiceName+"/Invoke", in, opts)
}

// serverStream starts a server-streaming call and sends the request.
func serverStream(ctx context.Context, cc grpc.ClientConnInterface, desc *grpc.StreamDesc, method string, in interface{}, opts []grpc.CallOption) (grpc.ClientStream, error) {
	stream, err := cc.NewStream(ctx, desc, method, opts...)
	if err != nil {
		return nil, err
	}
	if err = stream.SendMsg(in); err != nil {
		return nil, err
	}
	if err = stream.CloseSend(); err != nil {
		return nil, err
	}
	return stream, nil
}

// NamedCacheService_GetAllClient receives the entries of a GetAll call.
type NamedCacheService_GetAllClient interface {
	Recv() (*Entry, error)
	grpc.ClientStream
}

type namedCacheServiceGetAllClient struct {
	grpc.ClientStream
}

func (x *namedCacheServiceGetAllClient) Recv() (*Entry, error) {
	m := new(Entry)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *namedCacheServiceClient) GetAll(ctx context.Context, in *GetAllRequest, opts ...grpc.CallOption) (NamedCacheService_GetAllClient, error) {
	stream, err := serverStream(ctx, c.cc, &ServiceDesc.Streams[0], "/"+ServiceName+"/GetAll", in, opts)
	if err != nil {
		return nil, err
	}
	return &namedCacheServiceGetAllClient{stream}, nil
}

// NamedCacheService_InvokeAllClient receives the entries of an InvokeAll call.
type NamedCacheService_InvokeAllClient interface {
	Recv() (*Entry, error)
	grpc.ClientStream
}

type namedCacheServiceInvokeAllClient struct {
	grpc.ClientStream
}

func (x *namedCacheServiceInvokeAllClient) Recv() (*Entry, error) {
	m := new(Entry)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *namedCacheServiceClient) InvokeAll(ctx context.Context, in *InvokeAllRequest, opts ...grpc.CallOption) (NamedCacheService_InvokeAllClient, error) {
	stream, err := serverStream(ctx, c.cc, &ServiceDesc.Streams[1], "/"+ServiceName+"/InvokeAll", in, opts)
	if err != nil {
		return nil, err
	}
	return &namedCacheServiceInvokeAllClient{stream}, nil
}

// NamedCacheService_KeySetClient receives the keys of a KeySet call.
type NamedCacheService_KeySetClient interface {
	Recv() (*BytesValue, error)
	grpc.ClientStream
}

type namedCacheServiceKeySetClient struct {
	grpc.ClientStream
}

func (x *namedCacheServiceKeySetClient) Recv() (*BytesValue, error) {
	m := new(BytesValue)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *namedCacheServiceClient) KeySet(ctx context.Context, in *KeySetRequest, opts ...grpc.CallOption) (NamedCacheService_KeySetClient, error) {
	stream, err := serverStream(ctx, c.cc, &ServiceDesc.Streams[2], "/"+ServiceName+"/KeySet", in, opts)
	if err != nil {
		return nil, err
	}
	return &namedCacheServiceKeySetClient{stream}, nil
}

// NamedCacheService_EntrySetClient receives the entries of an EntrySet call.
type NamedCacheService_EntrySetClient interface {
	Recv() (*Entry, error)
	grpc.ClientStream
}

type namedCacheServiceEntrySetClient struct {
	grpc.ClientStream
}

func (x *namedCacheServiceEntrySetClient) Recv() (*Entry, error) {
	m := new(Entry)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *namedCacheServiceClient) EntrySet(ctx context.Context, in *EntrySetRequest, opts ...grpc.CallOption) (NamedCacheService_EntrySetClient, error) {
	stream, err := serverStream(ctx, c.cc, &ServiceDesc.Streams[3], "/"+ServiceName+"/EntrySet", in, opts)
	if err != nil {
		return nil, err
	}
	return &namedCacheServiceEntrySetClient{stream}, nil
}

// NamedCacheService_ValuesClient receives the values of a Values call.
type NamedCacheService_ValuesClient interface {
	Recv() (*BytesValue, error)
	grpc.ClientStream
}

type namedCacheServiceValuesClient struct {
	grpc.ClientStream
}

func (x *namedCacheServiceValuesClient) Recv() (*BytesValue, error) {
	m := new(BytesValue)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *namedCacheServiceClient) Values(ctx context.Context, in *ValuesRequest, opts ...grpc.CallOption) (NamedCacheService_ValuesClient, error) {
	stream, err := serverStream(ctx, c.cc, &ServiceDesc.Streams[4], "/"+ServiceName+"/Values", in, opts)
	if err != nil {
		return nil, err
	}
	return &namedCacheServiceValuesClient{stream}, nil
}

// NamedCacheService_NextKeySetPageClient receives one page of a key cursor.
type NamedCacheService_NextKeySetPageClient interface {
	Recv() (*BytesValue, error)
	grpc.ClientStream
}

type namedCacheServiceNextKeySetPageClient struct {
	grpc.ClientStream
}

func (x *namedCacheServiceNextKeySetPageClient) Recv() (*BytesValue, error) {
	m := new(BytesValue)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *namedCacheServiceClient) NextKeySetPage(ctx context.Context, in *PageRequest, opts ...grpc.CallOption) (NamedCacheService_NextKeySetPageClient, error) {
	stream, err := serverStream(ctx, c.cc, &ServiceDesc.Streams[5], "/"+ServiceName+"/NextKeySetPage", in, opts)
	if err != nil {
		return nil, err
	}
	return &namedCacheServiceNextKeySetPageClient{stream}, nil
}

// NamedCacheService_NextEntrySetPageClient receives one page of an entry cursor.
type NamedCacheService_NextEntrySetPageClient interface {
	Recv() (*EntryResult, error)
	grpc.ClientStream
}

type namedCacheServiceNextEntrySetPageClient struct {
	grpc.ClientStream
}

func (x *namedCacheServiceNextEntrySetPageClient) Recv() (*EntryResult, error) {
	m := new(EntryResult)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *namedCacheServiceClient) NextEntrySetPage(ctx context.Context, in *PageRequest, opts ...grpc.CallOption) (NamedCacheService_NextEntrySetPageClient, error) {
	stream, err := serverStream(ctx, c.cc, &ServiceDesc.Streams[6], "/"+ServiceName+"/NextEntrySetPage", in, opts)
	if err != nil {
		return nil, err
	}
	return &namedCacheServiceNextEntrySetPageClient{stream}, nil
}

// NamedCacheService_EventsClient is the client side of the bidirectional
// events channel.
type NamedCacheService_EventsClient interface {
	Send(*MapListenerRequest) error
	Recv() (*MapListenerResponse, error)
	grpc.ClientStream
}

type namedCacheServiceEventsClient struct {
	grpc.ClientStream
}

func (x *namedCacheServiceEventsClient) Send(m *MapListenerRequest) error {
	return x.ClientStream.SendMsg(m)
}

func (x *namedCacheServiceEventsClient) Recv() (*MapListenerResponse, error) {
	m := new(MapListenerResponse)
	if err := x.ClientStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (c *namedCacheServiceClient) Events(ctx context.Context, opts ...grpc.CallOption) (NamedCacheService_EventsClient, error) {
	stream, err := c.cc.NewStream(ctx, &ServiceDesc.Streams[7], "/"+ServiceName+"/Events", opts...)
	if err != nil {
		return nil, err
	}
	return &namedCacheServiceEventsClient{stream}, nil
}

// NamedCacheServiceServer is the server API for the NamedCacheService.
type NamedCacheServiceServer interface {
	Get(ctx context.Context, in *GetRequest) (*OptionalValue, error)
	Put(ctx context.Context, in *PutRequest) (*BytesValue, error)
	PutIfAbsent(ctx context.Context, in *PutIfAbsentRequest) (*BytesValue, error)
	PutAll(ctx context.Context, in *PutAllRequest) (*Empty, error)
	Remove(ctx context.Context, in *RemoveRequest) (*BytesValue, error)
	RemoveMapping(ctx context.Context, in *RemoveMappingRequest) (*BoolValue, error)
	Replace(ctx context.Context, in *ReplaceRequest) (*BytesValue, error)
	ReplaceMapping(ctx context.Context, in *ReplaceMappingRequest) (*BoolValue, error)
	ContainsKey(ctx context.Context, in *ContainsKeyRequest) (*BoolValue, error)
	ContainsValue(ctx context.Context, in *ContainsValueRequest) (*BoolValue, error)
	ContainsEntry(ctx context.Context, in *ContainsEntryRequest) (*BoolValue, error)
	IsEmpty(ctx context.Context, in *IsEmptyRequest) (*BoolValue, error)
	IsReady(ctx context.Context, in *IsReadyRequest) (*BoolValue, error)
	Size(ctx context.Context, in *SizeRequest) (*Int32Value, error)
	Clear(ctx context.Context, in *ClearRequest) (*Empty, error)
	Truncate(ctx context.Context, in *TruncateRequest) (*Empty, error)
	Destroy(ctx context.Context, in *DestroyRequest) (*Empty, error)
	AddIndex(ctx context.Context, in *AddIndexRequest) (*Empty, error)
	RemoveIndex(ctx context.Context, in *RemoveIndexRequest) (*Empty, error)
	Aggregate(ctx context.Context, in *AggregateRequest) (*BytesValue, error)
	Invoke(ctx context.Context, in *InvokeRequest) (*BytesValue, error)
	GetAll(in *GetAllRequest, stream NamedCacheService_GetAllServer) error
	InvokeAll(in *InvokeAllRequest, stream NamedCacheService_InvokeAllServer) error
	KeySet(in *KeySetRequest, stream NamedCacheService_KeySetServer) error
	EntrySet(in *EntrySetRequest, stream NamedCacheService_EntrySetServer) error
	Values(in *ValuesRequest, stream NamedCacheService_ValuesServer) error
	NextKeySetPage(in *PageRequest, stream NamedCacheService_NextKeySetPageServer) error
	NextEntrySetPage(in *PageRequest, stream NamedCacheService_NextEntrySetPageServer) error
	Events(stream NamedCacheService_EventsServer) error
}

// NamedCacheService_GetAllServer sends the entries of a GetAll call.
type NamedCacheService_GetAllServer interface {
	Send(*Entry) error
	grpc.ServerStream
}

type namedCacheServiceGetAllServer struct {
	grpc.ServerStream
}

func (x *namedCacheServiceGetAllServer) Send(m *Entry) error {
	return x.ServerStream.SendMsg(m)
}

// NamedCacheService_InvokeAllServer sends the entries of an InvokeAll call.
type NamedCacheService_InvokeAllServer interface {
	Send(*Entry) error
	grpc.ServerStream
}

type namedCacheServiceInvokeAllServer struct {
	grpc.ServerStream
}

func (x *namedCacheServiceInvokeAllServer) Send(m *Entry) error {
	return x.ServerStream.SendMsg(m)
}

// NamedCacheService_KeySetServer sends the keys of a KeySet call.
type NamedCacheService_KeySetServer interface {
	Send(*BytesValue) error
	grpc.ServerStream
}

type namedCacheServiceKeySetServer struct {
	grpc.ServerStream
}

func (x *namedCacheServiceKeySetServer) Send(m *BytesValue) error {
	return x.ServerStream.SendMsg(m)
}

// NamedCacheService_EntrySetServer sends the entries of an EntrySet call.
type NamedCacheService_EntrySetServer interface {
	Send(*Entry) error
	grpc.ServerStream
}

type namedCacheServiceEntrySetServer struct {
	grpc.ServerStream
}

func (x *namedCacheServiceEntrySetServer) Send(m *Entry) error {
	return x.ServerStream.SendMsg(m)
}

// NamedCacheService_ValuesServer sends the values of a Values call.
type NamedCacheService_ValuesServer interface {
	Send(*BytesValue) error
	grpc.ServerStream
}

type namedCacheServiceValuesServer struct {
	grpc.ServerStream
}

func (x *namedCacheServiceValuesServer) Send(m *BytesValue) error {
	return x.ServerStream.SendMsg(m)
}

// NamedCacheService_NextKeySetPageServer sends one page of a key cursor.
type NamedCacheService_NextKeySetPageServer interface {
	Send(*BytesValue) error
	grpc.ServerStream
}

type namedCacheServiceNextKeySetPageServer struct {
	grpc.ServerStream
}

func (x *namedCacheServiceNextKeySetPageServer) Send(m *BytesValue) error {
	return x.ServerStream.SendMsg(m)
}

// NamedCacheService_NextEntrySetPageServer sends one page of an entry cursor.
type NamedCacheService_NextEntrySetPageServer interface {
	Send(*EntryResult) error
	grpc.ServerStream
}

type namedCacheServiceNextEntrySetPageServer struct {
	grpc.ServerStream
}

func (x *namedCacheServiceNextEntrySetPageServer) Send(m *EntryResult) error {
	return x.ServerStream.SendMsg(m)
}

// NamedCacheService_EventsServer is the server side of the bidirectional
// events channel.
type NamedCacheService_EventsServer interface {
	Send(*MapListenerResponse) error
	Recv() (*MapListenerRequest, error)
	grpc.ServerStream
}

type namedCacheServiceEventsServer struct {
	grpc.ServerStream
}

func (x *namedCacheServiceEventsServer) Send(m *MapListenerResponse) error {
	return x.ServerStream.SendMsg(m)
}

func (x *namedCacheServiceEventsServer) Recv() (*MapListenerRequest, error) {
	m := new(MapListenerRequest)
	if err := x.ServerStream.RecvMsg(m); err != nil {
		return nil, err
	}
	return m, nil
}

// RegisterNamedCacheServiceServer registers the service implementation with
// the gRPC server.
func RegisterNamedCacheServiceServer(s grpc.ServiceRegistrar, srv NamedCacheServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unaryHandler[In any, Out any](method string, call func(NamedCacheServiceServer, context.Context, *In) (*Out, error)) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(In)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(NamedCacheServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + method}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(NamedCacheServiceServer), ctx, req.(*In))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func _NamedCacheService_GetAll_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(GetAllRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(NamedCacheServiceServer).GetAll(m, &namedCacheServiceGetAllServer{stream})
}

func _NamedCacheService_InvokeAll_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(InvokeAllRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(NamedCacheServiceServer).InvokeAll(m, &namedCacheServiceInvokeAllServer{stream})
}

func _NamedCacheService_KeySet_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(KeySetRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(NamedCacheServiceServer).KeySet(m, &namedCacheServiceKeySetServer{stream})
}

func _NamedCacheService_EntrySet_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(EntrySetRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(NamedCacheServiceServer).EntrySet(m, &namedCacheServiceEntrySetServer{stream})
}

func _NamedCacheService_Values_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(ValuesRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(NamedCacheServiceServer).Values(m, &namedCacheServiceValuesServer{stream})
}

func _NamedCacheService_NextKeySetPage_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(PageRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(NamedCacheServiceServer).NextKeySetPage(m, &namedCacheServiceNextKeySetPageServer{stream})
}

func _NamedCacheService_NextEntrySetPage_Handler(srv interface{}, stream grpc.ServerStream) error {
	m := new(PageRequest)
	if err := stream.RecvMsg(m); err != nil {
		return err
	}
	return srv.(NamedCacheServiceServer).NextEntrySetPage(m, &namedCacheServiceNextEntrySetPageServer{stream})
}

func _NamedCacheService_Events_Handler(srv interface{}, stream grpc.ServerStream) error {
	return srv.(NamedCacheServiceServer).Events(&namedCacheServiceEventsServer{stream})
}

// ServiceDesc is the grpc.ServiceDesc for the NamedCacheService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*NamedCacheServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Get", Handler: unaryHandler("Get", func(s NamedCacheServiceServer, ctx context.Context, in *GetRequest) (*OptionalValue, error) { return s.Get(ctx, in) })},
		{MethodName: "Put", Handler: unaryHandler("Put", func(s NamedCacheServiceServer, ctx context.Context, in *PutRequest) (*BytesValue, error) { return s.Put(ctx, in) })},
		{MethodName: "PutIfAbsent", Handler: unaryHandler("PutIfAbsent", func(s NamedCacheServiceServer, ctx context.Context, in *PutIfAbsentRequest) (*BytesValue, error) { return s.PutIfAbsent(ctx, in) })},
		{MethodName: "PutAll", Handler: unaryHandler("PutAll", func(s NamedCacheServiceServer, ctx context.Context, in *PutAllRequest) (*Empty, error) { return s.PutAll(ctx, in) })},
		{MethodName: "Remove", Handler: unaryHandler("Remove", func(s NamedCacheServiceServer, ctx context.Context, in *RemoveRequest) (*BytesValue, error) { return s.Remove(ctx, in) })},
		{MethodName: "RemoveMapping", Handler: unaryHandler("RemoveMapping", func(s NamedCacheServiceServer, ctx context.Context, in *RemoveMappingRequest) (*BoolValue, error) { return s.RemoveMapping(ctx, in) })},
		{MethodName: "Replace", Handler: unaryHandler("Replace", func(s NamedCacheServiceServer, ctx context.Context, in *ReplaceRequest) (*BytesValue, error) { return s.Replace(ctx, in) })},
		{MethodName: "ReplaceMapping", Handler: unaryHandler("ReplaceMapping", func(s NamedCacheServiceServer, ctx context.Context, in *ReplaceMappingRequest) (*BoolValue, error) { return s.ReplaceMapping(ctx, in) })},
		{MethodName: "ContainsKey", Handler: unaryHandler("ContainsKey", func(s NamedCacheServiceServer, ctx context.Context, in *ContainsKeyRequest) (*BoolValue, error) { return s.ContainsKey(ctx, in) })},
		{MethodName: "ContainsValue", Handler: unaryHandler("ContainsValue", func(s NamedCacheServiceServer, ctx context.Context, in *ContainsValueRequest) (*BoolValue, error) { return s.ContainsValue(ctx, in) })},
		{MethodName: "ContainsEntry", Handler: unaryHandler("ContainsEntry", func(s NamedCacheServiceServer, ctx context.Context, in *ContainsEntryRequest) (*BoolValue, error) { return s.ContainsEntry(ctx, in) })},
		{MethodName: "IsEmpty", Handler: unaryHandler("IsEmpty", func(s NamedCacheServiceServer, ctx context.Context, in *IsEmptyRequest) (*BoolValue, error) { return s.IsEmpty(ctx, in) })},
		{MethodName: "IsReady", Handler: unaryHandler("IsReady", func(s NamedCacheServiceServer, ctx context.Context, in *IsReadyRequest) (*BoolValue, error) { return s.IsReady(ctx, in) })},
		{MethodName: "Size", Handler: unaryHandler("Size", func(s NamedCacheServiceServer, ctx context.Context, in *SizeRequest) (*Int32Value, error) { return s.Size(ctx, in) })},
		{MethodName: "Clear", Handler: unaryHandler("Clear", func(s NamedCacheServiceServer, ctx context.Context, in *ClearRequest) (*Empty, error) { return s.Clear(ctx, in) })},
		{MethodName: "Truncate", Handler: unaryHandler("Truncate", func(s NamedCacheServiceServer, ctx context.Context, in *TruncateRequest) (*Empty, error) { return s.Truncate(ctx, in) })},
		{MethodName: "Destroy", Handler: unaryHandler("Destroy", func(s NamedCacheServiceServer, ctx context.Context, in *DestroyRequest) (*Empty, error) { return s.Destroy(ctx, in) })},
		{MethodName: "AddIndex", Handler: unaryHandler("AddIndex", func(s NamedCacheServiceServer, ctx context.Context, in *AddIndexRequest) (*Empty, error) { return s.AddIndex(ctx, in) })},
		{MethodName: "RemoveIndex", Handler: unaryHandler("RemoveIndex", func(s NamedCacheServiceServer, ctx context.Context, in *RemoveIndexRequest) (*Empty, error) { return s.RemoveIndex(ctx, in) })},
		{MethodName: "Aggregate", Handler: unaryHandler("Aggregate", func(s NamedCacheServiceServer, ctx context.Context, in *AggregateRequest) (*BytesValue, error) { return s.Aggregate(ctx, in) })},
		{MethodName: "Invoke", Handler: unaryHandler("Invoke", func(s NamedCacheServiceServer, ctx context.Context, in *InvokeRequest) (*BytesValue, error) { return s.Invoke(ctx, in) })},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "GetAll", Handler: _NamedCacheService_GetAll_Handler, ServerStreams: true},
		{StreamName: "InvokeAll", Handler: _NamedCacheService_InvokeAll_Handler, ServerStreams: true},
		{StreamName: "KeySet", Handler: _NamedCacheService_KeySet_Handler, ServerStreams: true},
		{StreamName: "EntrySet", Handler: _NamedCacheService_EntrySet_Handler, ServerStreams: true},
		{StreamName: "Values", Handler: _NamedCacheService_Values_Handler, ServerStreams: true},
		{StreamName: "NextKeySetPage", Handler: _NamedCacheService_NextKeySetPage_Handler, ServerStreams: true},
		{StreamName: "NextEntrySetPage", Handler: _NamedCacheService_NextEntrySetPage_Handler, ServerStreams: true},
		{StreamName: "Events", Handler: _NamedCacheService_Events_Handler, ServerStreams: true, ClientStreams: true},
	},
}
