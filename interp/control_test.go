package interp_test

import (
	"testing"

	"cinterp/interp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSwitchFallThrough(t *testing.T) {
	result := interp.Interpret(`
int main(){
	int i = 1;
	switch(i){
		case 0:
			printf("zero");
			break;
		case 1:
			printf("one ");
		case 2:
			printf("two");
			break;
		default:
			printf("other");
	}
	return 0;
}`)
	require.True(t, result.OK, result.Error)
	assert.Equal(t, "one two", result.Output)
}

func TestSwitchDefaultOnlyReachedIfNoEarlierMatch(t *testing.T) {
	result := interp.Interpret(`
int main(){
	int i = 99;
	switch(i){
		case 0:
			printf("zero");
			break;
		default:
			printf("other");
	}
	return 0;
}`)
	require.True(t, result.OK, result.Error)
	assert.Equal(t, "other", result.Output)
}

func TestSwitchNonIntegerLabelIsIgnored(t *testing.T) {
	result := interp.Interpret(`
int main(){
	int i = 0;
	switch(i){
		case 0.0:
			printf("float");
			break;
		case 0:
			printf("matched");
			break;
	}
	return 0;
}`)
	require.True(t, result.OK, result.Error)
	assert.Equal(t, "matched", result.Output)
}

func TestForLoopContinueStillRunsStep(t *testing.T) {
	result := interp.Interpret(`
int main(){
	for(int i=0;i<5;i++){
		if(i==2) continue;
		printf("%d", i);
	}
	return 0;
}`)
	require.True(t, result.OK, result.Error)
	assert.Equal(t, "0134", result.Output)
}

func TestBraceLessForAndWhileBodies(t *testing.T) {
	result := interp.Interpret(`
int main(){
	for(int i=0;i<3;i++) printf("%d", i);
	int j = 0;
	while(j<3) printf("%d", j++);
	return 0;
}`)
	require.True(t, result.OK, result.Error)
	assert.Equal(t, "012012", result.Output)
}

func TestBraceLessIfBodyWithBreak(t *testing.T) {
	result := interp.Interpret(`
int main(){
	for(int i=0;i<10;i++){
		if(i==5) break;
		printf("%d", i);
	}
	return 0;
}`)
	require.True(t, result.OK, result.Error)
	assert.Equal(t, "01234", result.Output)
}

func TestBraceLessIfElseBothArms(t *testing.T) {
	result := interp.Interpret(`
int main(){
	int x = 5;
	if(x>10) printf("G\n"); else printf("S\n");
	return 0;
}`)
	require.True(t, result.OK, result.Error)
	assert.Equal(t, "S\n", result.Output)
}

func TestDoWhileRunsBodyAtLeastOnce(t *testing.T) {
	result := interp.Interpret(`
int main(){
	int i = 10;
	do {
		printf("x");
	} while(i < 5);
	return 0;
}`)
	require.True(t, result.OK, result.Error)
	assert.Equal(t, "x", result.Output)
}

func TestElseIfChain(t *testing.T) {
	result := interp.Interpret(`
int main(){
	int x = 2;
	if (x == 1) printf("one");
	else if (x == 2) printf("two");
	else printf("other");
	return 0;
}`)
	require.True(t, result.OK, result.Error)
	assert.Equal(t, "two", result.Output)
}

func TestArrayIndexingAndOutOfRange(t *testing.T) {
	result := interp.Interpret(`
int main(){
	int a[3];
	a[0] = 10;
	a[1] = 20;
	printf("%d %d", a[0], a[1]);
	return 0;
}`)
	require.True(t, result.OK, result.Error)
	assert.Equal(t, "10 20", result.Output)

	result = interp.Interpret(`
int main(){
	int a[3];
	a[5] = 1;
	return 0;
}`)
	require.False(t, result.OK)
}

func TestSegFaultOnDereferenceOfUnaddressedPointer(t *testing.T) {
	result := interp.Interpret(`
int main(){
	int *p;
	printf("%d", *p);
	return 0;
}`)
	require.False(t, result.OK)
	assert.Contains(t, result.Error, "Segmentation fault")
}

func TestStrcmpAndSrandAndScanfAreNoOps(t *testing.T) {
	result := interp.Interpret(`
int main(){
	srand(42);
	int unused = 1;
	scanf("%d", &unused);
	strcmp("a", "b");
	printf("ok");
	return 0;
}`)
	require.True(t, result.OK, result.Error)
	assert.Equal(t, "ok", result.Output)
}
